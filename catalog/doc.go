// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package catalog reads the provider catalog from its CSV form.
//
// The catalog is a comma separated file with a header row naming the
// columns ID, Name, Service Type, Skills, Location, Rating, Days Available
// and Contact. Column order is free; header names are matched after trimming
// whitespace and a UTF-8 byte order mark. A missing column is a fatal error.
//
// Rows are validated individually. A row whose ID or Rating cannot be
// parsed, whose ID is negative or whose rating falls outside [0,5] is dropped
// and counted. Later rows repeating an ID already seen are dropped with a
// warning. Empty text cells become empty strings.
//
// Basic usage:
//
//	cat, err := catalog.Open("data/service_dataset.csv")
//	if err != nil {
//		return err
//	}
//	fmt.Println(len(cat.Providers), cat.Fingerprint)
package catalog

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


// Package api exposes recommendations over a small JSON HTTP interface.
//
// Routes:
//
//	POST /recommend       rank providers for a request (JSON or form body)
//	GET  /providers       list every provider
//	GET  /providers/:id   show one provider
//	GET  /facets          distinct service types and locations
//	GET  /healthz         catalog statistics
//
// Every response is wrapped in an Envelope carrying a status, the HTTP code,
// a human readable message and the request's trace id. The trace id is also
// returned in the X-Trace-ID header.
package api

package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/poiesic/servmatch/catalog"
	"github.com/poiesic/servmatch/core"
)

type trade struct {
	serviceType string
	suffix      string
	skills      []string
}

var trades = []trade{
	{"Plumber", "Plumbing", []string{"Pipe Repair", "Leak Fix", "Drain Cleaning", "Water Heater", "Bathroom Fitting"}},
	{"Electrician", "Electric", []string{"Wiring", "Switchboard", "Inverter Setup", "Lighting", "Fan Installation"}},
	{"Painter", "Paints", []string{"Interior", "Exterior", "Wall Putty", "Texture Painting", "Waterproofing"}},
	{"Carpenter", "Woodworks", []string{"Furniture Repair", "Door Fitting", "Modular Kitchen", "Polishing"}},
	{"Cleaner", "Cleaning", []string{"Deep Cleaning", "Sofa Cleaning", "Carpet Cleaning", "Kitchen Cleaning"}},
	{"AC Technician", "Cooling", []string{"AC Repair", "Gas Refill", "AC Installation", "Servicing"}},
	{"Pest Control", "Pest Care", []string{"Termite Control", "Cockroach Control", "Fumigation"}},
	{"Mason", "Construction", []string{"Tiling", "Plastering", "Brick Work", "Waterproofing"}},
}

var locations = []string{
	"Kathmandu", "Lalitpur", "Bhaktapur", "Pokhara", "Biratnagar", "Butwal", "Dharan", "Chitwan",
}

var firstNames = []string{
	"Ram", "Sita", "Hari", "Gita", "Shyam", "Mina", "Bikash", "Anita", "Suresh", "Kamala",
	"Rajesh", "Sarita", "Dipak", "Laxmi", "Prakash", "Sunita", "Nabin", "Puja", "Krishna", "Rita",
}

var dayPatterns = []string{
	"Mon–Fri", "Mon–Sat", "Sun–Thu", "Tue–Sat", "Wed–Sun", "Mon–Sun",
	"Sat, Sun", "Mon, Wed, Fri", "Tue, Thu, Sat", "Fri–Mon",
}

var (
	outFile = flag.String("out", "data/service_dataset.csv", "catalog CSV to write")
	count   = flag.Int("count", 200, "number of providers to generate")
	seed    = flag.Uint64("seed", 1, "random seed; equal seeds produce equal catalogs")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}

// generate returns n synthetic providers. The output depends only on n and seed.
func generate(n int, seed uint64) []core.Provider {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	providers := make([]core.Provider, n)
	for i := range providers {
		t := trades[rng.IntN(len(trades))]
		providers[i] = core.Provider{
			ID:          int64(i + 1),
			Name:        fmt.Sprintf("%s %s", firstNames[rng.IntN(len(firstNames))], t.suffix),
			ServiceType: t.serviceType,
			Location:    locations[rng.IntN(len(locations))],
			Rating:      float64(10+rng.IntN(41)) / 10,
			Skills:      strings.Join(pickSkills(rng, t.skills), ", "),
			Days:        dayPatterns[rng.IntN(len(dayPatterns))],
			Contact:     fmt.Sprintf("98%08d", rng.IntN(100000000)),
		}
	}
	return providers
}

// pickSkills chooses between one and three distinct skills, keeping their
// listed order.
func pickSkills(rng *rand.Rand, skills []string) []string {
	k := 1 + rng.IntN(min(3, len(skills)))
	perm := rng.Perm(len(skills))[:k]
	picked := make([]string, 0, k)
	for i, s := range skills {
		for _, p := range perm {
			if p == i {
				picked = append(picked, s)
				break
			}
		}
	}
	return picked
}

func writeCatalog(path string, providers []core.Provider) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := catalog.Write(w, providers); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func main() {
	flag.Parse()

	if *count <= 0 {
		slog.Error("count must be positive", "count", *count)
		os.Exit(1)
	}

	providers := generate(*count, *seed)
	if err := writeCatalog(*outFile, providers); err != nil {
		slog.Error("failed to write catalog", "path", *outFile, "err", err)
		os.Exit(1)
	}
	slog.Info("wrote catalog", "path", *outFile, "providers", len(providers), "seed", *seed)
}

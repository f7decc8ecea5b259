// Command resolve exercises the resolver core end to end against a pin file
// and a set of root constraints read from the command line, in the spirit
// of golang-dep's own cmd/dep entry point: a thin flag-parsing shell around
// the library, with trace output gated by -v.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/depresolve/gpscore/pinstore"
	"github.com/depresolve/gpscore/resolve"
	"github.com/depresolve/gpscore/vcsprovider"
)

var (
	verbose  = flag.Bool("v", false, "enable solver trace logging")
	prefetch = flag.Bool("prefetch", true, "prefetch root dependencies' containers concurrently")
	pinFile  = flag.String("pins", pinstore.PinName, "path to the pin file to seed and update")
	cacheDir = flag.String("cache", ".resolve-cache", "directory for VCS checkouts")
)

func main() {
	flag.Parse()
	if err := run(flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	deps, err := parseRootConstraints(args)
	if err != nil {
		return err
	}

	pins, err := loadPins()
	if err != nil {
		return err
	}

	var logger *log.Logger
	if *verbose {
		logger = log.New(os.Stderr, "", 0)
	}

	provider := vcsprovider.NewProvider(*cacheDir, nil)
	r := resolve.NewResolver(provider, nil, *prefetch, logger)

	result := r.Resolve(context.Background(), deps, pins)
	return report(result)
}

// parseRootConstraints accepts name=lower:upper triples on the command
// line, e.g. "github.com/foo/bar=1.0.0:2.0.0"; a bare name means "any
// version". The name doubles as the source location vcsprovider clones from.
func parseRootConstraints(args []string) ([]resolve.Constraint, error) {
	out := make([]resolve.Constraint, 0, len(args))
	for _, arg := range args {
		name, rangeSpec := splitOnce(arg, '=')
		if rangeSpec == "" {
			out = append(out, resolve.Constraint{
				Id:          resolve.PackageId{Name: name, Source: name},
				Requirement: resolve.AnyRequirement(),
			})
			continue
		}

		lower, upper := splitOnce(rangeSpec, ':')
		var lo, hi *resolve.Version
		if lower != "" {
			v, err := resolve.NewVersion(lower)
			if err != nil {
				return nil, fmt.Errorf("parsing lower bound for %s: %w", name, err)
			}
			lo = &v
		}
		if upper != "" {
			v, err := resolve.NewVersion(upper)
			if err != nil {
				return nil, fmt.Errorf("parsing upper bound for %s: %w", name, err)
			}
			hi = &v
		}
		out = append(out, resolve.Constraint{
			Id:          resolve.PackageId{Name: name, Source: name},
			Requirement: resolve.VersionSetRequirement{Set: resolve.RangeVersionSet(lo, hi)},
		})
	}
	return out, nil
}

func splitOnce(s string, sep byte) (before, after string) {
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			return s[:i], s[i+1:]
		}
	}
	return s, ""
}

func loadPins() ([]resolve.Constraint, error) {
	f, err := os.Open(*pinFile)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	store, err := pinstore.Read(f)
	if err != nil {
		return nil, err
	}
	return store.Constraints()
}

func report(result resolve.Result) error {
	switch result.Kind {
	case resolve.ResultSuccess:
		return printBindings(result.Bindings)
	case resolve.ResultUnsatisfiable:
		fmt.Fprintf(os.Stderr, "unsatisfiable: %v\n", result.Err)
		for _, d := range result.Dependencies {
			fmt.Fprintf(os.Stderr, "  dependency: %s %s\n", d.Id, d.Requirement)
		}
		for _, p := range result.Pins {
			fmt.Fprintf(os.Stderr, "  pin: %s %s\n", p.Id, p.Requirement)
		}
		os.Exit(1)
	case resolve.ResultError:
		return result.Err
	}
	return nil
}

func printBindings(bindings []resolve.Binding) error {
	store := pinstore.FromBindings(bindings)
	f, err := os.Create(*pinFile)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := store.Write(f); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	defer tw.Flush()
	for _, b := range bindings {
		fmt.Fprintf(tw, "%s\t%s\n", b.Id, b.Bound)
	}
	return nil
}

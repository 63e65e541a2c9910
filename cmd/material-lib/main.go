package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chrissnell/flightloads/internal/material"
)

func main() {
	var (
		source  = flag.String("library", "", "Material library: a .json, .yaml or .db file, or a postgres:// DSN (built-in library when empty)")
		backend = flag.String("backend", "", "Library backend: builtin, json, yaml, sqlite or postgres; inferred when empty")
	)
	flag.Usage = showHelp
	flag.Parse()

	if flag.NArg() < 1 {
		showHelp()
		os.Exit(1)
	}

	p, err := material.Open(*backend, *source)
	if err != nil {
		fatalf("Failed to open material library: %v", err)
	}
	defer p.Close()

	lib, err := p.Load()
	if err != nil {
		fatalf("Failed to load material library: %v", err)
	}

	args := flag.Args()[1:]
	switch cmd := flag.Arg(0); cmd {
	case "list":
		for _, m := range lib.Materials() {
			conds, _ := lib.Conditions(m)
			fmt.Printf("%s (%d conditions)\n", m, len(conds))
		}
	case "show":
		if len(args) != 1 {
			fatalf("show takes one material name")
		}
		err = show(lib, args[0])
	case "add":
		err = add(lib, args)
		if err == nil {
			err = save(p, lib)
		}
	case "delete":
		if len(args) != 1 {
			fatalf("delete takes one material name")
		}
		err = lib.Delete(args[0])
		if err == nil {
			err = save(p, lib)
		}
	case "convert":
		err = convert(lib, args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		showHelp()
		os.Exit(1)
	}

	if err != nil {
		fatalf("%s failed: %v", flag.Arg(0), err)
	}
}

func show(lib *material.Library, name string) error {
	conds, err := lib.Conditions(name)
	if err != nil {
		return err
	}
	fmt.Println(name)
	for _, c := range conds {
		e, _ := lib.Entry(name, c)
		if !e.Available {
			fmt.Printf("  %-40s no data\n", c)
			continue
		}
		k := e.Coefficients
		fmt.Printf("  %-40s A=%g B=%g C=%g D=%g\n", c, k.A, k.B, k.C, k.D)
	}
	return nil
}

func add(lib *material.Library, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	name := fs.String("material", "", "Material name (required)")
	cond := fs.String("condition", "", "Condition name; a placeholder is stored when empty")
	a := fs.Float64("a", 0, "S-N coefficient A")
	b := fs.Float64("b", 0, "S-N coefficient B")
	c := fs.Float64("c", 0, "S-N coefficient C")
	d := fs.Float64("d", 0, "S-N coefficient D")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*name) == "" {
		return errors.New("-material is required")
	}

	conds := material.Conditions{}
	if *cond != "" {
		conds[*cond] = material.NewEntry(*a, *b, *c, *d)
	}
	return lib.Add(*name, conds)
}

func save(p material.Provider, lib *material.Library) error {
	s, ok := p.(material.Saver)
	if !ok {
		return errors.New("the built-in library is read-only; pass -library")
	}
	return s.Save(lib)
}

func convert(lib *material.Library, args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	to := fs.String("to", "", "Destination library (required)")
	toBackend := fs.String("to-backend", "", "Destination backend; inferred when empty")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *to == "" {
		return errors.New("-to is required")
	}

	dst, err := material.Open(*toBackend, *to)
	if err != nil {
		return err
	}
	defer dst.Close()

	if err := save(dst, lib); err != nil {
		return err
	}
	fmt.Printf("Wrote %d materials to %s\n", lib.Len(), *to)
	return nil
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func showHelp() {
	fmt.Println("Material Library Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  material-lib [flags] <command> [command flags]")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -library string    Library file or postgres:// DSN (default: built-in)")
	fmt.Println("  -backend string    builtin, json, yaml, sqlite or postgres")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  list                                   List materials")
	fmt.Println("  show <material>                        Show the conditions of a material")
	fmt.Println("  add -material m [-condition c -a -b -c -d]")
	fmt.Println("                                         Add a material")
	fmt.Println("  delete <material>                      Delete a material")
	fmt.Println("  convert -to dst [-to-backend b]        Copy the library to another backend")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  material-lib convert -to materials.json")
	fmt.Println("  material-lib -library materials.db show \"2024-T3 Aluminium\"")
	fmt.Println("  material-lib -library materials.json add -material \"6061-T6 Aluminium\" -condition \"Unnotched\" -a 20.7 -b 9.8")
}

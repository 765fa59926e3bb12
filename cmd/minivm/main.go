// minivm CLI - assembles and runs minivm programs
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/chazu/minivm/manifest"
	"github.com/chazu/minivm/pkg/asm"
	"github.com/chazu/minivm/pkg/image"
	"github.com/chazu/minivm/pkg/store"
	"github.com/chazu/minivm/pkg/vm"
)

func main() {
	compileOnly := flag.Bool("c", false, "Compile only, write an image instead of running")
	output := flag.String("o", "", "Image output path (default: source with .img extension)")
	listing := flag.Bool("S", false, "Print a disassembly listing instead of running")
	trace := flag.Bool("trace", false, "Trace each executed instruction")
	verbose := flag.Int("v", 0, "Log verbosity")
	cachePath := flag.String("cache", "", "Compile cache database path")
	project := flag.String("p", "", "Run the project in the given directory (reads minivm.toml)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: minivm [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Assembles and runs a .svm source file, or runs a prebuilt .img image.\n")
		fmt.Fprintf(os.Stderr, "After a program halts its result (the top of the stack) is printed.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  minivm prog.svm              # assemble and run\n")
		fmt.Fprintf(os.Stderr, "  minivm -c -o prog.img prog.svm\n")
		fmt.Fprintf(os.Stderr, "  minivm prog.img              # run a prebuilt image\n")
		fmt.Fprintf(os.Stderr, "  minivm -S prog.svm           # show the bytecode listing\n")
		fmt.Fprintf(os.Stderr, "  minivm -p ./examples/countdown\n")
	}
	flag.Parse()

	commonlog.Configure(*verbose, nil)

	var (
		path     string
		name     string
		runTrace = *trace
		outPath  = *output
	)

	switch {
	case *project != "":
		m, err := manifest.Load(*project)
		if err != nil {
			fail("%v", err)
		}
		if err := m.Validate(); err != nil {
			fail("%v", err)
		}
		path = m.EntryPath()
		name = m.Project.Name
		runTrace = runTrace || m.Run.Trace
		if outPath == "" {
			outPath = m.OutputPath()
		}
	case flag.NArg() == 1:
		path = flag.Arg(0)
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	default:
		flag.Usage()
		os.Exit(2)
	}

	code, source, err := loadCode(path, *cachePath, name)
	if err != nil {
		fail("%v", err)
	}

	if *listing {
		fmt.Print(vm.DisassembleWithName(code, name))
		return
	}

	if *compileOnly {
		if source == "" {
			fail("%s is already an image", path)
		}
		if outPath == "" {
			outPath = strings.TrimSuffix(path, filepath.Ext(path)) + ".img"
		}
		data, err := image.New(code).Serialize()
		if err != nil {
			fail("%v", err)
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			fail("%v", err)
		}
		return
	}

	m := vm.NewMachine(code)
	m.Trace = runTrace
	if err := m.Run(); err != nil {
		fail("%v", err)
	}

	result, err := m.Result()
	if err != nil {
		fail("program halted with an empty stack: %v", err)
	}
	fmt.Println(result)
}

// loadCode produces a runnable code buffer from path. Image files are
// deserialized directly; assembly sources are compiled, consulting the
// compile cache when one is configured. The second return value is the
// source text, empty when path was already an image.
func loadCode(path, cachePath, name string) ([]int, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}

	if filepath.Ext(path) == ".img" {
		im, err := image.Deserialize(data)
		if err != nil {
			return nil, "", err
		}
		return im.Code, "", nil
	}

	source := string(data)

	if cachePath != "" {
		code, err := compileCached(source, cachePath, name)
		return code, source, err
	}

	code, err := asm.AssembleSource(source)
	return code, source, err
}

// compileCached assembles source through the compile cache: a hit skips
// assembly entirely, a miss assembles and stores the image.
func compileCached(source, cachePath, name string) ([]int, error) {
	s, err := store.Open(cachePath)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	if data, ok, err := s.Get(source); err != nil {
		return nil, err
	} else if ok {
		im, err := image.Deserialize(data)
		if err != nil {
			return nil, err
		}
		return im.Code, nil
	}

	code, err := asm.AssembleSource(source)
	if err != nil {
		return nil, err
	}
	data, err := image.New(code).Serialize()
	if err != nil {
		return nil, err
	}
	if err := s.Put(source, name, data); err != nil {
		return nil, err
	}
	return code, nil
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

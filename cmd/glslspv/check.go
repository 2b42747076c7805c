package main

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/glslspv/spirv"
)

// manifest describes the expectations a pipeline places on its
// modules.
type manifest struct {
	Modules []manifestModule `toml:"module"`
}

type manifestModule struct {
	Path  string `toml:"path"`
	Entry string `toml:"entry"`
	Stage string `toml:"stage"`

	// MaxBound caps the module's id bound; zero means no cap.
	MaxBound int64 `toml:"max_bound"`
}

var (
	manifestPath string
	checkJobs    int
)

var checkCmd = &cobra.Command{
	Use:   "check [modules...]",
	Short: "Validate SPIR-V modules",
	Long: `Check runs the structural validator over each module and, when a
manifest is given, verifies the entry point, stage and id bound each
module declares against the manifest's expectations.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&manifestPath, "manifest", "", "TOML pipeline manifest")
	checkCmd.Flags().IntVarP(&checkJobs, "jobs", "j", 4, "modules checked in parallel")
}

func runCheck(cmd *cobra.Command, args []string) error {
	targets := make(map[string]manifestModule)
	for _, path := range args {
		targets[path] = manifestModule{Path: path}
	}
	if manifestPath != "" {
		var m manifest
		if _, err := toml.DecodeFile(manifestPath, &m); err != nil {
			return fmt.Errorf("reading manifest: %w", err)
		}
		for _, mod := range m.Modules {
			targets[mod.Path] = mod
		}
	}
	if len(targets) == 0 {
		return fmt.Errorf("no modules to check")
	}

	paths := make([]string, 0, len(targets))
	for path := range targets {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var (
		mu       sync.Mutex
		failures int
	)
	g := new(errgroup.Group)
	g.SetLimit(checkJobs)
	for _, path := range paths {
		mod := targets[path]
		g.Go(func() error {
			err := checkModule(mod)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures++
				color.Red("FAIL %s: %v", mod.Path, err)
			} else {
				color.Green("OK   %s", mod.Path)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d modules failed", failures, len(paths))
	}
	return nil
}

func checkModule(mod manifestModule) error {
	data, err := os.ReadFile(mod.Path)
	if err != nil {
		return err
	}
	if err := spirv.Validate(data); err != nil {
		return err
	}
	module, err := spirv.Parse(data)
	if err != nil {
		return err
	}

	if mod.MaxBound > 0 {
		cap32, err := safecast.Conv[uint32](mod.MaxBound)
		if err != nil {
			return fmt.Errorf("max_bound %d out of range: %w", mod.MaxBound, err)
		}
		if module.Header.Bound > cap32 {
			return fmt.Errorf("id bound %d exceeds cap %d", module.Header.Bound, cap32)
		}
	}
	if mod.Entry == "" && mod.Stage == "" {
		return nil
	}

	entry, stage, err := entryPointOf(module)
	if err != nil {
		return err
	}
	if mod.Entry != "" && entry != mod.Entry {
		return fmt.Errorf("entry point %q, manifest expects %q", entry, mod.Entry)
	}
	if mod.Stage != "" && stage != mod.Stage {
		return fmt.Errorf("stage %q, manifest expects %q", stage, mod.Stage)
	}
	return nil
}

// entryPointOf returns the name and stage of the module's first entry
// point.
func entryPointOf(module *spirv.Module) (name, stage string, err error) {
	for _, inst := range module.Instructions {
		if inst.Opcode != spirv.OpEntryPoint {
			continue
		}
		name, _ := spirv.DecodeString(inst.Words[2:])
		var stage string
		switch spirv.ExecutionModel(inst.Words[0]) {
		case spirv.ExecutionModelVertex:
			stage = "vertex"
		case spirv.ExecutionModelFragment:
			stage = "fragment"
		case spirv.ExecutionModelGLCompute:
			stage = "compute"
		default:
			stage = fmt.Sprintf("model-%d", inst.Words[0])
		}
		return name, stage, nil
	}
	return "", "", fmt.Errorf("module has no entry point")
}

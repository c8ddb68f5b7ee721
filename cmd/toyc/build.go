package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"toyc/internal/driver"
	"toyc/internal/project"
	runtimeembed "toyc/runtime"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [path]",
	Short: "Compile toy sources to x86-64 assembly",
	Long: `Build compiles a single .toy file, a directory of .toy files, or a
project rooted at a toy.toml manifest, and writes one .s listing per source
file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringP("out", "o", "", "output directory for .s files (default: next to sources)")
	buildCmd.Flags().Bool("comments", false, "interleave source position comments in the assembly")
	buildCmd.Flags().Int("jobs", 0, "parallel compilations for directory builds (0 = one per CPU)")
	buildCmd.Flags().Bool("no-cache", false, "bypass the on-disk assembly cache")
	buildCmd.Flags().Bool("runtime", false, "write the C runtime next to the emitted assembly")
}

func runBuild(cmd *cobra.Command, args []string) error {
	outDir, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	comments, err := cmd.Flags().GetBool("comments")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return err
	}
	withRuntime, err := cmd.Flags().GetBool("runtime")
	if err != nil {
		return err
	}

	target := "."
	if len(args) == 1 {
		target = args[0]
	}

	opts := driver.Options{
		MaxDiagnostics: maxDiagnostics(cmd),
		Comments:       comments,
	}
	if !noCache {
		cache, cacheErr := driver.OpenDiskCache("toyc")
		if cacheErr != nil {
			return fmt.Errorf("open cache: %w", cacheErr)
		}
		opts.Cache = cache
	}

	info, statErr := os.Stat(target)
	switch {
	case statErr == nil && !info.IsDir():
		err = buildFile(cmd, target, outDir, opts)
	case statErr != nil && !strings.HasSuffix(target, driver.SourceExt):
		// Not an existing path and not a source file: nothing to do.
		return fmt.Errorf("stat %s: %w", target, statErr)
	case statErr != nil:
		err = buildFile(cmd, target, outDir, opts)
	default:
		err = buildProject(cmd, target, outDir, jobs, opts)
	}
	if err != nil {
		return err
	}
	if withRuntime {
		return writeRuntime(cmd, runtimeDir(target, outDir))
	}
	return nil
}

// runtimeDir is where the C runtime lands: the explicit output directory
// when one is set, otherwise next to the sources.
func runtimeDir(target, outDir string) string {
	if outDir != "" {
		return outDir
	}
	if strings.HasSuffix(target, driver.SourceExt) {
		return filepath.Dir(target)
	}
	return target
}

// writeRuntime materializes the embedded C runtime so the assembly can be
// assembled and linked in place.
func writeRuntime(cmd *cobra.Command, dir string) error {
	entries, err := fs.ReadDir(runtimeembed.NativeRuntimeFS(), "native")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, entry := range entries {
		content, err := fs.ReadFile(runtimeembed.NativeRuntimeFS(), path.Join("native", entry.Name()))
		if err != nil {
			return err
		}
		outPath := filepath.Join(dir, entry.Name())
		if err := os.WriteFile(outPath, content, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
	}
	return nil
}

// buildFile compiles one source file and writes its listing.
func buildFile(cmd *cobra.Command, srcPath, outDir string, opts driver.Options) error {
	fs, res, err := driver.CompileFile(srcPath, opts)
	if err != nil {
		return err
	}
	printDiagnostics(cmd, res.Bag, fs)
	if res.Bag.HasErrors() {
		return errors.New("build failed")
	}
	outPath, err := writeListing(res, outDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s%s\n", outPath, cachedSuffix(res))
	return nil
}

// buildProject compiles a directory, honoring a toy.toml manifest when one
// is present at or above dir.
func buildProject(cmd *cobra.Command, dir, outDir string, jobs int, opts driver.Options) error {
	manifestPath, findErr := project.Find(dir)
	if findErr == nil {
		manifest, err := project.Load(manifestPath)
		if err != nil {
			return err
		}
		root := filepath.Dir(manifestPath)
		if outDir == "" && manifest.Build.Out != "" {
			outDir = filepath.Join(root, manifest.Build.Out)
		}
		if manifest.Build.Comments {
			opts.Comments = true
		}
		if jobs == 0 {
			jobs = manifest.Build.Jobs
		}
		if manifest.Build.Entry != "" {
			return buildFile(cmd, filepath.Join(root, manifest.Build.Entry), outDir, opts)
		}
		dir = root
	}

	fs, results, err := driver.CompileDir(cmd.Context(), dir, jobs, opts)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("no %s files in %s", driver.SourceExt, dir)
	}

	failed := 0
	for _, res := range results {
		printDiagnostics(cmd, res.Bag, fs)
		if res.Bag.HasErrors() {
			failed++
			continue
		}
		outPath, writeErr := writeListing(res, outDir)
		if writeErr != nil {
			return writeErr
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s%s\n", outPath, cachedSuffix(res))
	}
	if failed > 0 {
		return fmt.Errorf("build failed: %d of %d files had errors", failed, len(results))
	}
	return nil
}

// writeListing stores the assembly next to the source, or under outDir when
// one is set.
func writeListing(res driver.Result, outDir string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(res.Path), driver.SourceExt) + ".s"
	outPath := filepath.Join(filepath.Dir(res.Path), base)
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return "", err
		}
		outPath = filepath.Join(outDir, base)
	}
	if err := os.WriteFile(outPath, []byte(res.Assembly), 0o644); err != nil {
		return "", err
	}
	return outPath, nil
}

func cachedSuffix(res driver.Result) string {
	if res.Cached {
		return " (cached)"
	}
	return ""
}

package packager

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"workout-planner-api/internal/adapters/storage"
)

// BootstrapName is the executable name the provided.al2023 runtime looks for
const BootstrapName = "bootstrap"

// Function maps a deployed function name to the Go package that implements it
type Function struct {
	Name    string `validate:"required,alphanum"`
	Package string `validate:"required"`
}

// DefaultFunctions are the functions packaged when none are configured
func DefaultFunctions() []Function {
	return []Function{
		{Name: "workoutPlanner", Package: "./cmd/lambda/workout"},
		{Name: "helloWorld", Package: "./cmd/lambda/hello"},
	}
}

// Options configures a packaging run
type Options struct {
	OutputDir string     `validate:"required"`
	GOOS      string     `validate:"required"`
	GOARCH    string     `validate:"required,oneof=arm64 amd64"`
	Tags      []string   `validate:"dive,required"`
	Functions []Function `validate:"min=1,dive"`
	Prefix    string     // storage key prefix for published archives

	// SkipExisting leaves archives that are already published untouched
	SkipExisting bool
	// Prune deletes published archives under Prefix that no longer match a function
	Prune bool
}

// DefaultOptions returns the options used when no flags are given
func DefaultOptions() Options {
	return Options{
		OutputDir: "dist",
		GOOS:      "linux",
		GOARCH:    "arm64",
		Tags:      []string{"lambda.norpc"},
		Functions: DefaultFunctions(),
		Prefix:    "functions",
	}
}

// Artifact is one packaged function
type Artifact struct {
	Name       string
	BinaryPath string
	ZipPath    string
	Size       int64
	StorageKey string // empty when not published
	Skipped    bool   // already published, left as is
}

// Packager builds, archives, verifies and optionally publishes functions
type Packager struct {
	builder Builder
	store   storage.FileStorage
	opts    Options
}

// New creates a Packager. store may be nil to skip publishing.
func New(builder Builder, store storage.FileStorage, opts Options) (*Packager, error) {
	if builder == nil {
		return nil, fmt.Errorf("builder cannot be nil")
	}
	if err := validator.New().Struct(opts); err != nil {
		return nil, fmt.Errorf("invalid packaging options: %w", err)
	}
	if err := checkOutputDir(opts.OutputDir); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(opts.Functions))
	for _, fn := range opts.Functions {
		if seen[fn.Name] {
			return nil, fmt.Errorf("duplicate function name: %s", fn.Name)
		}
		seen[fn.Name] = true
	}

	return &Packager{builder: builder, store: store, opts: opts}, nil
}

// Run executes the whole pipeline and returns the artifacts in function order
func (p *Packager) Run(ctx context.Context) ([]Artifact, error) {
	start := time.Now()

	if err := p.clean(); err != nil {
		return nil, err
	}

	artifacts := make([]Artifact, 0, len(p.opts.Functions))
	for _, fn := range p.opts.Functions {
		artifact, err := p.packageFunction(ctx, fn)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, artifact)
	}

	if err := p.verify(artifacts); err != nil {
		return nil, err
	}

	if p.store != nil {
		if err := p.publish(ctx, artifacts); err != nil {
			return nil, err
		}
		if p.opts.Prune {
			if err := p.prune(ctx); err != nil {
				return nil, err
			}
		}
	}

	logrus.WithFields(logrus.Fields{
		"functions":   len(artifacts),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Packaging completed")

	return artifacts, nil
}

func (p *Packager) functionsDir() string {
	return filepath.Join(p.opts.OutputDir, "functions")
}

// clean removes and recreates the output directory
func (p *Packager) clean() error {
	if _, err := os.Stat(p.opts.OutputDir); err == nil {
		logrus.WithField("dir", p.opts.OutputDir).Info("Cleaning output directory")
		if err := os.RemoveAll(p.opts.OutputDir); err != nil {
			return fmt.Errorf("failed to clean %s: %w", p.opts.OutputDir, err)
		}
	}

	if err := os.MkdirAll(p.functionsDir(), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", p.functionsDir(), err)
	}
	return nil
}

func (p *Packager) packageFunction(ctx context.Context, fn Function) (Artifact, error) {
	logger := logrus.WithField("function", fn.Name)

	funcDir := filepath.Join(p.functionsDir(), fn.Name)
	if err := os.MkdirAll(funcDir, 0755); err != nil {
		return Artifact{}, fmt.Errorf("failed to create %s: %w", funcDir, err)
	}

	binary := filepath.Join(funcDir, BootstrapName)
	logger.WithField("package", fn.Package).Info("Building function")
	if err := p.builder.Build(ctx, BuildSpec{
		Package: fn.Package,
		Output:  binary,
		GOOS:    p.opts.GOOS,
		GOARCH:  p.opts.GOARCH,
		Tags:    p.opts.Tags,
	}); err != nil {
		return Artifact{}, fmt.Errorf("failed to build %s: %w", fn.Name, err)
	}

	if _, err := os.Stat(binary); err != nil {
		return Artifact{}, fmt.Errorf("build for %s produced no %s: %w", fn.Name, BootstrapName, err)
	}

	zipPath := filepath.Join(p.functionsDir(), fn.Name+".zip")
	logger.WithField("zip", zipPath).Info("Creating archive")
	if err := ZipDirectory(funcDir, zipPath); err != nil {
		return Artifact{}, err
	}

	return Artifact{Name: fn.Name, BinaryPath: binary, ZipPath: zipPath}, nil
}

// verify checks that every archive exists and records its size
func (p *Packager) verify(artifacts []Artifact) error {
	for i := range artifacts {
		stat, err := os.Stat(artifacts[i].ZipPath)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", artifacts[i].ZipPath, err)
		}
		artifacts[i].Size = stat.Size()

		logrus.WithFields(logrus.Fields{
			"zip":  artifacts[i].ZipPath,
			"size": stat.Size(),
		}).Info("Verified archive")
	}
	return nil
}

func (p *Packager) publish(ctx context.Context, artifacts []Artifact) error {
	for i := range artifacts {
		data, err := os.ReadFile(artifacts[i].ZipPath)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", artifacts[i].ZipPath, err)
		}

		key := p.storageKey(artifacts[i].Name)
		if p.opts.SkipExisting {
			exists, err := p.store.Exists(ctx, key)
			if err != nil {
				return fmt.Errorf("failed to check %s: %w", key, err)
			}
			if exists {
				artifacts[i].StorageKey = key
				artifacts[i].Skipped = true
				logrus.WithField("key", key).Info("Archive already published, skipping")
				continue
			}
		}

		err = p.store.Store(ctx, key, data, &storage.StoreOptions{
			ContentType: "application/zip",
			Overwrite:   !p.opts.SkipExisting,
			Metadata: map[string]string{
				"function": artifacts[i].Name,
				"goos":     p.opts.GOOS,
				"goarch":   p.opts.GOARCH,
			},
		})
		if err != nil {
			return fmt.Errorf("failed to publish %s: %w", artifacts[i].Name, err)
		}

		metadata, err := p.store.GetMetadata(ctx, key)
		if err != nil {
			return fmt.Errorf("failed to confirm upload of %s: %w", key, err)
		}
		if metadata.Size != artifacts[i].Size {
			return fmt.Errorf("uploaded %s has %d bytes, expected %d", key, metadata.Size, artifacts[i].Size)
		}

		artifacts[i].StorageKey = key
		logrus.WithFields(logrus.Fields{
			"function": artifacts[i].Name,
			"key":      key,
			"size":     metadata.Size,
		}).Info("Published archive")
	}
	return nil
}

func (p *Packager) storageKey(name string) string {
	return path.Join(p.opts.Prefix, name+".zip")
}

// prune removes archives directly under Prefix that belong to no configured function
func (p *Packager) prune(ctx context.Context) error {
	prefix := ""
	if p.opts.Prefix != "" {
		prefix = strings.TrimSuffix(p.opts.Prefix, "/") + "/"
	}

	keep := make(map[string]bool, len(p.opts.Functions))
	for _, fn := range p.opts.Functions {
		keep[p.storageKey(fn.Name)] = true
	}

	listing, err := p.store.List(ctx, &storage.ListOptions{Prefix: prefix})
	if err != nil {
		return fmt.Errorf("failed to list %q: %w", prefix, err)
	}
	if listing.IsTruncated {
		logrus.WithField("prefix", prefix).Warn("Archive listing truncated, pruning first page only")
	}

	for _, f := range listing.Files {
		name := strings.TrimPrefix(f.Key, prefix)
		if keep[f.Key] || strings.Contains(name, "/") || path.Ext(name) != ".zip" {
			continue
		}

		if err := p.store.Delete(ctx, f.Key); err != nil && !storage.IsNotFound(err) {
			return fmt.Errorf("failed to prune %s: %w", f.Key, err)
		}
		logrus.WithField("key", f.Key).Info("Pruned stale archive")
	}
	return nil
}

// checkOutputDir refuses directories whose cleaning would remove the
// filesystem root, the home directory, the working directory or one of its parents
func checkOutputDir(dir string) error {
	target, err := resolvePath(dir)
	if err != nil {
		return fmt.Errorf("invalid output directory %q: %w", dir, err)
	}

	if target == filepath.Dir(target) {
		return fmt.Errorf("output directory %q is the filesystem root", dir)
	}
	if home, err := os.UserHomeDir(); err == nil {
		if resolved, err := resolvePath(home); err == nil && resolved == target {
			return fmt.Errorf("output directory %q is the home directory", dir)
		}
	}

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to resolve working directory: %w", err)
	}
	if wd, err = resolvePath(wd); err != nil {
		return fmt.Errorf("failed to resolve working directory: %w", err)
	}
	if isWithin(wd, target) {
		return fmt.Errorf("output directory %q contains the working directory", dir)
	}
	return nil
}

// resolvePath returns the absolute path with symlinks evaluated when it exists
func resolvePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}

// isWithin reports whether child is dir or lies below it
func isWithin(child, dir string) bool {
	rel, err := filepath.Rel(dir, child)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

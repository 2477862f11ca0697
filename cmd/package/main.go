package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"workout-planner-api/internal/adapters/storage"
	"workout-planner-api/internal/config"
	"workout-planner-api/internal/logging"
	"workout-planner-api/internal/packager"
)

func main() {
	defaults := packager.DefaultOptions()

	flags := pflag.NewFlagSet("package", pflag.ExitOnError)
	flags.String("output", defaults.OutputDir, "output directory for built functions")
	flags.String("goos", defaults.GOOS, "target operating system")
	flags.String("goarch", defaults.GOARCH, "target architecture (arm64 or amd64)")
	flags.StringSlice("tags", defaults.Tags, "build tags")
	flags.StringSlice("function", nil, "function to package as name=package (repeatable, defaults to all)")
	flags.String("storage", "", "publish archives to storage: local or s3 (empty skips publishing)")
	flags.String("prefix", defaults.Prefix, "storage key prefix for published archives")
	flags.Bool("no-overwrite", false, "skip archives that are already published")
	flags.Bool("prune", false, "delete published archives under the prefix that match no packaged function")
	flags.String("log-level", "info", "log level")
	_ = flags.Parse(os.Args[1:])

	_ = godotenv.Load()

	v := viper.New()
	bindings := map[string]string{
		"PACKAGE_OUTPUT":        "output",
		"PACKAGE_GOOS":          "goos",
		"PACKAGE_GOARCH":        "goarch",
		"PACKAGE_TAGS":          "tags",
		"PACKAGE_SKIP_EXISTING": "no-overwrite",
		"PACKAGE_PRUNE":         "prune",
		"STORAGE_TYPE":          "storage",
		"S3_PREFIX":             "prefix",
		"LOG_LEVEL":             "log-level",
	}
	for key, name := range bindings {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			logrus.Fatalf("Failed to bind flag %s: %v", name, err)
		}
	}

	cfg, err := config.FromViper(v)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logging.Setup(cfg.Log.Level, cfg.Log.Format); err != nil {
		logrus.Fatalf("Failed to configure logging: %v", err)
	}

	functions, err := parseFunctions(mustStringSlice(flags, "function"))
	if err != nil {
		logrus.Fatalf("Invalid --function value: %v", err)
	}

	opts := packager.Options{
		OutputDir: v.GetString("PACKAGE_OUTPUT"),
		GOOS:      v.GetString("PACKAGE_GOOS"),
		GOARCH:    v.GetString("PACKAGE_GOARCH"),
		Tags:      v.GetStringSlice("PACKAGE_TAGS"),
		Functions: functions,
		Prefix:    cfg.Storage.S3Prefix,

		SkipExisting: v.GetBool("PACKAGE_SKIP_EXISTING"),
		Prune:        v.GetBool("PACKAGE_PRUNE"),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store storage.FileStorage
	if cfg.Storage.Type != "" {
		store, err = storage.DefaultFactory().Create(ctx, storageConfig(cfg.Storage))
		if err != nil {
			logrus.Fatalf("Failed to create storage: %v", err)
		}
		defer store.Close()
	}

	p, err := packager.New(&packager.GoBuilder{}, store, opts)
	if err != nil {
		logrus.Fatalf("Failed to create packager: %v", err)
	}

	artifacts, err := p.Run(ctx)
	if err != nil {
		logrus.Fatalf("Packaging failed: %v", err)
	}

	for _, a := range artifacts {
		fmt.Printf("%s\t%s\t%d bytes\n", a.Name, a.ZipPath, a.Size)
	}
}

func storageConfig(sc config.StorageConfig) *storage.StorageConfig {
	return &storage.StorageConfig{
		Type:            sc.Type,
		BasePath:        sc.LocalPath,
		Bucket:          sc.S3Bucket,
		Region:          sc.S3Region,
		Endpoint:        sc.S3Endpoint,
		AccessKeyID:     sc.S3AccessKeyID,
		SecretAccessKey: sc.S3SecretAccessKey,
	}
}

func mustStringSlice(flags *pflag.FlagSet, name string) []string {
	values, err := flags.GetStringSlice(name)
	if err != nil {
		logrus.Fatalf("Failed to read flag %s: %v", name, err)
	}
	return values
}

// parseFunctions turns name=package pairs into functions, falling back to the defaults
func parseFunctions(values []string) ([]packager.Function, error) {
	if len(values) == 0 {
		return packager.DefaultFunctions(), nil
	}

	functions := make([]packager.Function, 0, len(values))
	for _, value := range values {
		name, pkg, ok := strings.Cut(value, "=")
		if !ok || name == "" || pkg == "" {
			return nil, fmt.Errorf("expected name=package, got %q", value)
		}
		functions = append(functions, packager.Function{Name: name, Package: pkg})
	}
	return functions, nil
}

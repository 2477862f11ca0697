package packager

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// BuildSpec describes one binary to compile
type BuildSpec struct {
	Package string // e.g. ./cmd/lambda/workout
	Output  string // path of the resulting binary
	GOOS    string
	GOARCH  string
	Tags    []string
}

// Builder compiles a function binary
type Builder interface {
	Build(ctx context.Context, spec BuildSpec) error
}

// GoBuilder runs the go toolchain to produce static binaries
type GoBuilder struct {
	GoBinary string // defaults to "go"
	Dir      string // module root; defaults to the working directory
}

// Build runs `go build` with cgo disabled for the target platform
func (b *GoBuilder) Build(ctx context.Context, spec BuildSpec) error {
	goBinary := b.GoBinary
	if goBinary == "" {
		goBinary = "go"
	}

	args := []string{"build", "-trimpath", "-ldflags", "-s -w"}
	if len(spec.Tags) > 0 {
		args = append(args, "-tags", strings.Join(spec.Tags, ","))
	}
	args = append(args, "-o", spec.Output, spec.Package)

	cmd := exec.CommandContext(ctx, goBinary, args...)
	cmd.Dir = b.Dir
	cmd.Env = append(os.Environ(),
		"CGO_ENABLED=0",
		"GOOS="+spec.GOOS,
		"GOARCH="+spec.GOARCH,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	logrus.WithFields(logrus.Fields{
		"package": spec.Package,
		"output":  spec.Output,
		"goos":    spec.GOOS,
		"goarch":  spec.GOARCH,
	}).Debug("Running go build")

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("go build %s failed: %w: %s", spec.Package, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

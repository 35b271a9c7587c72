package runtime

import (
	"archive/tar"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/docker/docker/api/types/build"

	"github.com/searchstack/vespactl/internal/logger"
)

// BuildImage builds the workload image from a Dockerfile in the given context
// directory and tags it with the fixed image tag.
//
// The context directory is packed into a tar archive and streamed to the
// daemon; the daemon-side layer cache is the only build caching in play -
// rebuilding on every start is accepted latency, not something the CLI
// optimizes. Build output is relayed line by line to the given writer so
// failures are visible inline.
//
// Parameters:
//   - ctx: Context for cancellation
//   - contextDir: Build context directory on the host
//   - dockerfile: Dockerfile path relative to the context (selects CPU/GPU variant)
//   - tag: Image tag to apply
//   - out: Destination for the daemon's build output
//
// Returns an error on any build failure; build errors are fatal to the
// deployment since they typically require user intervention.
func (r *Runtime) BuildImage(ctx context.Context, contextDir, dockerfile, tag string, out io.Writer) error {
	logger.Info("Building image %s from %s (dockerfile: %s)", tag, contextDir, dockerfile)

	tarFile, err := os.CreateTemp("", "vespactl-build-context-*.tar")
	if err != nil {
		return fmt.Errorf("failed to create build context archive: %w", err)
	}
	defer os.Remove(tarFile.Name())
	defer tarFile.Close()

	if err := tarDirectory(contextDir, tarFile); err != nil {
		return fmt.Errorf("failed to archive build context: %w", err)
	}

	if _, err := tarFile.Seek(0, 0); err != nil {
		return fmt.Errorf("failed to rewind build context archive: %w", err)
	}

	response, err := r.client.ImageBuild(ctx, tarFile, build.ImageBuildOptions{
		Tags:       []string{tag},
		Dockerfile: dockerfile,
		Remove:     true,
	})
	if err != nil {
		return fmt.Errorf("failed to build image: %w", err)
	}
	defer response.Body.Close()

	if err := relayBuildOutput(response.Body, out); err != nil {
		return err
	}

	logger.Info("Image built: %s", tag)
	return nil
}

// tarDirectory packs srcDir into a tar stream, preserving relative paths.
func tarDirectory(srcDir string, writer io.Writer) error {
	tw := tar.NewWriter(writer)
	defer tw.Close()

	return filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(srcDir, path)
		if err != nil {
			return fmt.Errorf("failed to resolve relative path: %w", err)
		}
		if relPath == "." {
			return nil
		}

		// Symlink entries need their target recorded in the header.
		link := ""
		if info.Mode()&os.ModeSymlink != 0 {
			if link, err = os.Readlink(path); err != nil {
				return fmt.Errorf("failed to read symlink %s: %w", path, err)
			}
		}

		header, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return fmt.Errorf("failed to create tar header: %w", err)
		}
		header.Name = filepath.ToSlash(relPath)

		if err := tw.WriteHeader(header); err != nil {
			return fmt.Errorf("failed to write tar header: %w", err)
		}

		// Only regular files carry content; directories and symlinks are
		// fully described by their header.
		if !info.Mode().IsRegular() {
			return nil
		}

		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer file.Close()

		if _, err := io.Copy(tw, file); err != nil {
			return fmt.Errorf("failed to archive %s: %w", path, err)
		}
		return nil
	})
}

// relayBuildOutput decodes the daemon's JSON build stream, forwarding
// human-readable lines to out and surfacing embedded build errors.
func relayBuildOutput(reader io.Reader, out io.Writer) error {
	decoder := json.NewDecoder(reader)
	for {
		var msg struct {
			Stream string `json:"stream,omitempty"`
			Error  string `json:"error,omitempty"`
		}

		if err := decoder.Decode(&msg); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("failed to decode build output: %w", err)
		}

		if msg.Error != "" {
			return fmt.Errorf("build failed: %s", msg.Error)
		}
		if msg.Stream != "" {
			fmt.Fprint(out, msg.Stream)
		}
	}
}

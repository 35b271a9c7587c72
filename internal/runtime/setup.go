package runtime

import (
	"context"
	"fmt"
	"os"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/mount"

	"github.com/searchstack/vespactl/internal/config"
	"github.com/searchstack/vespactl/internal/logger"
)

// chownImage is the throwaway helper image used for permission alignment.
// busybox is tiny and its chown applet is all that is needed.
const chownImage = "busybox:stable"

// EnsureDataLayout creates the data directory tree if it is missing.
//
// The operation is idempotent - safe to call on every start/restart. Existing
// directories are left alone. After creation each directory gets a
// best-effort chmod to keep it owner-writable; chmod failures are logged at
// debug and swallowed, since the directories may already be correctly owned
// by a prior run or by root.
func EnsureDataLayout(cfg *config.Config) error {
	for _, dir := range cfg.DataLayout() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
		if err := os.Chmod(dir, 0o777); err != nil {
			// Expected when a prior run already chowned the tree to the
			// service account.
			logger.Debug("chmod %s failed (ignored): %v", dir, err)
		}
	}

	logger.Debug("Data layout ensured under %s", cfg.DataDir)
	return nil
}

// AlignPermissions chowns the data subdirectories to the service UID/GID the
// engine runs as inside the workload container.
//
// The chown runs inside a throwaway busybox container with each directory
// bind-mounted, so it works even when the CLI itself is unprivileged but the
// container runtime is not. Every failure here is logged and swallowed: the
// workload may still run correctly if the host already grants sufficient
// access, so permission alignment never aborts a deployment.
func (r *Runtime) AlignPermissions(ctx context.Context, cfg *config.Config) {
	if err := r.EnsureImage(ctx, chownImage); err != nil {
		logger.Warn("Cannot pull %s for permission alignment (ignored): %v", chownImage, err)
		return
	}

	targets := []string{cfg.EngineDataDir(), cfg.ModelsDir()}
	for _, dir := range targets {
		if err := r.chownDir(ctx, dir); err != nil {
			logger.Warn("Permission alignment for %s failed (ignored): %v", dir, err)
		} else {
			logger.Debug("Aligned ownership of %s to %d:%d", dir, config.ServiceUID, config.ServiceGID)
		}
	}
}

// chownDir runs `chown -R uid:gid /data` in a short-lived container with dir
// mounted at /data, waits for it to exit and removes it.
func (r *Runtime) chownDir(ctx context.Context, dir string) error {
	resp, err := r.client.ContainerCreate(
		ctx,
		&container.Config{
			Image: chownImage,
			Cmd: []string{
				"chown", "-R",
				fmt.Sprintf("%d:%d", config.ServiceUID, config.ServiceGID),
				"/data",
			},
		},
		&container.HostConfig{
			Mounts: []mount.Mount{
				{Type: mount.TypeBind, Source: dir, Target: "/data"},
			},
		},
		nil,
		nil,
		"", // anonymous, the runtime picks a name
	)
	if err != nil {
		return fmt.Errorf("failed to create chown container: %w", err)
	}

	// Best-effort cleanup regardless of how the wait below ends.
	defer func() {
		if err := r.client.ContainerRemove(context.WithoutCancel(ctx), resp.ID,
			container.RemoveOptions{Force: true}); err != nil {
			logger.Debug("Failed to remove chown container %s: %v", resp.ID[:12], err)
		}
	}()

	if err := r.client.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		return fmt.Errorf("failed to start chown container: %w", err)
	}

	statusCh, errCh := r.client.ContainerWait(ctx, resp.ID, container.WaitConditionNotRunning)
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to wait for chown container: %w", err)
		}
	case status := <-statusCh:
		if status.StatusCode != 0 {
			return fmt.Errorf("chown exited with status %d", status.StatusCode)
		}
	}

	return nil
}

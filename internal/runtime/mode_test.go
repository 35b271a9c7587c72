package runtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeProbe is a canned CapabilityProbe that records whether it was consulted.
type fakeProbe struct {
	hasGPU     bool
	runtimeGPU bool
	probed     bool
}

func (f *fakeProbe) HasGPU(context.Context) bool {
	f.probed = true
	return f.hasGPU
}

func (f *fakeProbe) RuntimeSupportsGPU(context.Context) bool {
	f.probed = true
	return f.runtimeGPU
}

func TestResolveMode(t *testing.T) {
	tests := []struct {
		name       string
		opts       ModeOptions
		probe      fakeProbe
		want       DeploymentMode
		wantProbed bool
	}{
		{
			name:       "force gpu skips detection",
			opts:       ModeOptions{ForceGPU: true},
			probe:      fakeProbe{hasGPU: false, runtimeGPU: false},
			want:       ModeGPU,
			wantProbed: false,
		},
		{
			name:       "force cpu skips detection",
			opts:       ModeOptions{ForceCPU: true},
			probe:      fakeProbe{hasGPU: true, runtimeGPU: true},
			want:       ModeCPU,
			wantProbed: false,
		},
		{
			name:       "gpu wins when both flags set",
			opts:       ModeOptions{ForceGPU: true, ForceCPU: true},
			probe:      fakeProbe{},
			want:       ModeGPU,
			wantProbed: false,
		},
		{
			name:       "gpu and runtime support detected",
			probe:      fakeProbe{hasGPU: true, runtimeGPU: true},
			want:       ModeGPU,
			wantProbed: true,
		},
		{
			name:       "gpu without runtime support falls back to cpu",
			probe:      fakeProbe{hasGPU: true, runtimeGPU: false},
			want:       ModeCPU,
			wantProbed: true,
		},
		{
			name:       "no gpu falls back to cpu",
			probe:      fakeProbe{hasGPU: false, runtimeGPU: true},
			want:       ModeCPU,
			wantProbed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveMode(context.Background(), tt.opts, &tt.probe)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantProbed, tt.probe.probed,
				"unexpected probing behavior")
		})
	}
}

func TestResolveModeAppleSilicon(t *testing.T) {
	origOS, origArch := hostOS, hostArch
	t.Cleanup(func() { hostOS, hostArch = origOS, origArch })

	hostOS, hostArch = "darwin", "arm64"

	probe := &fakeProbe{hasGPU: true, runtimeGPU: true}
	got := ResolveMode(context.Background(), ModeOptions{}, probe)

	assert.Equal(t, ModeCPU, got)
	assert.False(t, probe.probed, "Apple Silicon hosts must not be probed")
}

func TestDeploymentModeString(t *testing.T) {
	assert.Equal(t, "GPU-accelerated", ModeGPU.String())
	assert.Equal(t, "CPU-only", ModeCPU.String())
}

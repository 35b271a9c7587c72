package runtime

import (
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
)

func inspectWithLabels(labels map[string]string) *container.InspectResponse {
	return &container.InspectResponse{
		ContainerJSONBase: &container.ContainerJSONBase{
			HostConfig: &container.HostConfig{},
		},
		Config: &container.Config{Labels: labels},
	}
}

func TestModeFromInspect(t *testing.T) {
	tests := []struct {
		name string
		info *container.InspectResponse
		want DeploymentMode
	}{
		{
			name: "nil inspect defaults to cpu",
			info: nil,
			want: ModeCPU,
		},
		{
			name: "gpu label is authoritative",
			info: inspectWithLabels(map[string]string{labelMode: "gpu"}),
			want: ModeGPU,
		},
		{
			name: "cpu label is authoritative",
			info: inspectWithLabels(map[string]string{labelMode: "cpu"}),
			want: ModeCPU,
		},
		{
			name: "cpu label wins over device requests",
			info: func() *container.InspectResponse {
				info := inspectWithLabels(map[string]string{labelMode: "cpu"})
				info.HostConfig.Resources.DeviceRequests = []container.DeviceRequest{
					{Driver: "nvidia", Count: -1, Capabilities: [][]string{{"gpu"}}},
				}
				return info
			}(),
			want: ModeCPU,
		},
		{
			name: "unlabeled container with gpu device requests",
			info: func() *container.InspectResponse {
				info := inspectWithLabels(nil)
				info.HostConfig.Resources.DeviceRequests = []container.DeviceRequest{
					{Driver: "nvidia", Count: -1, Capabilities: [][]string{{"gpu"}}},
				}
				return info
			}(),
			want: ModeGPU,
		},
		{
			name: "unlabeled container with nvidia runtime",
			info: func() *container.InspectResponse {
				info := inspectWithLabels(nil)
				info.HostConfig.Runtime = "nvidia"
				return info
			}(),
			want: ModeGPU,
		},
		{
			name: "unlabeled container without gpu signals",
			info: inspectWithLabels(nil),
			want: ModeCPU,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ModeFromInspect(tt.info))
		})
	}
}

func TestUptime(t *testing.T) {
	t.Run("running container", func(t *testing.T) {
		started := time.Now().Add(-90 * time.Second)
		info := &container.InspectResponse{
			ContainerJSONBase: &container.ContainerJSONBase{
				State: &container.State{
					Running:   true,
					StartedAt: started.Format(time.RFC3339Nano),
				},
			},
		}

		up := Uptime(info)
		assert.GreaterOrEqual(t, up, 90*time.Second)
		assert.Less(t, up, 2*time.Minute)
	})

	t.Run("stopped container reports zero", func(t *testing.T) {
		info := &container.InspectResponse{
			ContainerJSONBase: &container.ContainerJSONBase{
				State: &container.State{Running: false},
			},
		}
		assert.Equal(t, time.Duration(0), Uptime(info))
	})

	t.Run("garbage timestamp reports zero", func(t *testing.T) {
		info := &container.InspectResponse{
			ContainerJSONBase: &container.ContainerJSONBase{
				State: &container.State{Running: true, StartedAt: "not-a-time"},
			},
		}
		assert.Equal(t, time.Duration(0), Uptime(info))
	})

	t.Run("nil inspect reports zero", func(t *testing.T) {
		assert.Equal(t, time.Duration(0), Uptime(nil))
	})
}

func TestPortMappings(t *testing.T) {
	info := &container.InspectResponse{
		ContainerJSONBase: &container.ContainerJSONBase{},
		NetworkSettings: &container.NetworkSettings{
			NetworkSettingsBase: container.NetworkSettingsBase{
				Ports: nat.PortMap{
					"8080/tcp": []nat.PortBinding{
						{HostIP: "0.0.0.0", HostPort: "8080"},
					},
					"19071/tcp": []nat.PortBinding{
						{HostIP: "0.0.0.0", HostPort: "19071"},
					},
				},
			},
		},
	}

	assert.ElementsMatch(t, []string{
		"0.0.0.0:8080->8080/tcp",
		"0.0.0.0:19071->19071/tcp",
	}, PortMappings(info))

	assert.Nil(t, PortMappings(nil))
}

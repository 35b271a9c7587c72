package runtime

import (
	"archive/tar"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readTarEntries unpacks a tar stream into header-by-name and content-by-name maps.
func readTarEntries(t *testing.T, r io.Reader) (map[string]*tar.Header, map[string]string) {
	t.Helper()

	headers := map[string]*tar.Header{}
	contents := map[string]string{}

	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)

		headers[hdr.Name] = hdr
		if hdr.Typeflag == tar.TypeReg {
			data, err := io.ReadAll(tr)
			require.NoError(t, err)
			contents[hdr.Name] = string(data)
		}
	}

	return headers, contents
}

func TestTarDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Dockerfile"), []byte("FROM scratch\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "conf"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "conf", "services.xml"), []byte("<services/>"), 0o644))

	buf := &bytes.Buffer{}
	require.NoError(t, tarDirectory(dir, buf))

	headers, contents := readTarEntries(t, buf)

	require.Contains(t, headers, "Dockerfile")
	assert.Equal(t, "FROM scratch\n", contents["Dockerfile"])

	require.Contains(t, headers, "conf")
	assert.Equal(t, byte(tar.TypeDir), headers["conf"].Typeflag)

	// Nested paths must use forward slashes regardless of host separator.
	require.Contains(t, headers, "conf/services.xml")
	assert.Equal(t, "<services/>", contents["conf/services.xml"])
}

func TestTarDirectorySymlinks(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Dockerfile"), []byte("FROM scratch\n"), 0o644))
	require.NoError(t, os.Symlink("Dockerfile", filepath.Join(dir, "Dockerfile.link")))

	buf := &bytes.Buffer{}
	require.NoError(t, tarDirectory(dir, buf))

	headers, _ := readTarEntries(t, buf)

	require.Contains(t, headers, "Dockerfile.link")
	link := headers["Dockerfile.link"]
	assert.Equal(t, byte(tar.TypeSymlink), link.Typeflag)
	assert.Equal(t, "Dockerfile", link.Linkname)
	assert.Zero(t, link.Size, "symlink entries carry no content")
}

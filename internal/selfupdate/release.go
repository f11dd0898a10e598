package selfupdate

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strings"
)

// maxDownload caps any single release download.
const maxDownload = 256 << 20

// Target is the platform a release asset is built for.
type Target struct {
	OS   string
	Arch string
}

// CurrentTarget is the platform of the running binary.
func CurrentTarget() Target {
	return Target{OS: runtime.GOOS, Arch: runtime.GOARCH}
}

// Asset returns the archive name the release pipeline publishes for t.
// macOS ships a single universal archive.
func (t Target) Asset() (string, error) {
	if t.OS == "darwin" {
		return "langdrill_Darwin_all.tar.gz", nil
	}

	var osName, ext string
	switch t.OS {
	case "linux":
		osName, ext = "Linux", ".tar.gz"
	case "windows":
		osName, ext = "Windows", ".zip"
	default:
		return "", fmt.Errorf("unsupported operating system: %s", t.OS)
	}

	arch, ok := releaseArch[t.Arch]
	if !ok {
		return "", fmt.Errorf("unsupported architecture: %s", t.Arch)
	}
	return "langdrill_" + osName + "_" + arch + ext, nil
}

// Binary is the executable name inside the archive.
func (t Target) Binary() string {
	if t.OS == "windows" {
		return "langdrill.exe"
	}
	return "langdrill"
}

var releaseArch = map[string]string{
	"amd64": "x86_64",
	"arm64": "arm64",
	"386":   "i386",
}

func (c *Checker) releaseFileURL(tag, name string) string {
	return fmt.Sprintf("%s/%s/%s/releases/download/%s/%s",
		strings.TrimRight(c.downloadBaseURL, "/"), c.owner, c.repo, tag, name)
}

func (c *Checker) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownload+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxDownload {
		return nil, fmt.Errorf("%s exceeds %d bytes", url, maxDownload)
	}
	return data, nil
}

// checksums maps asset name to hex sha256, as listed in checksums.txt.
type checksums map[string]string

func parseChecksums(data []byte) checksums {
	out := checksums{}
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) != 2 {
			continue
		}
		out[strings.TrimPrefix(fields[1], "*")] = strings.ToLower(fields[0])
	}
	return out
}

func (cs checksums) verify(asset string, data []byte) error {
	want, ok := cs[asset]
	if !ok {
		return fmt.Errorf("%w: %s not listed in checksums.txt", ErrChecksum, asset)
	}
	sum := sha256.Sum256(data)
	if got := hex.EncodeToString(sum[:]); got != want {
		return fmt.Errorf("%w: %s has %s, want %s", ErrChecksum, asset, got, want)
	}
	return nil
}

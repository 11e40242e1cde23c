package restyutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

// DirectoryOutput writes one file per exchange into a directory.
type DirectoryOutput struct {
	directory string
	counter   *uint64
}

// NewDirectoryOutput clears dir and recreates it.
func NewDirectoryOutput(dir string) (DirectoryOutput, error) {
	err := os.RemoveAll(dir)
	if err != nil {
		return DirectoryOutput{}, err
	}
	err = os.MkdirAll(dir, 0o755)
	if err != nil {
		return DirectoryOutput{}, err
	}
	var counter uint64
	return DirectoryOutput{directory: dir, counter: &counter}, nil
}

func (o DirectoryOutput) Dir() string {
	return o.directory
}

func (o DirectoryOutput) Write(name, contents string) {
	id := atomic.AddUint64(o.counter, 1)
	path := filepath.Join(o.directory, fmt.Sprintf("%04d-%s.txt", id, name))
	err := os.WriteFile(path, []byte(contents), 0o600)
	if err != nil {
		slog.Warn("failed to write exchange dump", "path", path, "err", err)
	}
}

// Dump writes every completed exchange of client into out. The file name is
// derived from the request method and the last segment of its path.
func Dump(client *resty.Client, out DirectoryOutput) {
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		out.Write(exchangeName(res.Request), FormatExchange(res))
		return nil
	})
}

func exchangeName(req *resty.Request) string {
	path := req.URL
	if req.RawRequest != nil && req.RawRequest.URL != nil {
		path = req.RawRequest.URL.Path
	}
	path = strings.Trim(path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		path = path[i+1:]
	}
	if path == "" {
		path = "root"
	}
	return strings.ToLower(req.Method) + "-" + path
}

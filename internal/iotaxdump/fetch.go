package iotaxdump

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/gnames/gn"
	"github.com/gnames/gnsys"
)

// dumpFiles are the files taken from the archive. The value tells if
// the file is required.
var dumpFiles = map[string]bool{
	NodesFile:  true,
	NamesFile:  true,
	MergedFile: false,
}

// Fetch downloads taxdump archive from url to archive and extracts
// dump files to dumpDir. The archive is not removed.
func Fetch(ctx context.Context, url, archive, dumpDir string) error {
	err := Download(ctx, url, archive)
	if err != nil {
		return err
	}
	return Extract(archive, dumpDir)
}

// Download saves the resource at url to path. If url has no http(s)
// scheme, it is treated as a local file and copied.
func Download(ctx context.Context, url, path string) error {
	slog.Info("Downloading taxonomy dump", "url", url, "path", path)

	var (
		r    io.ReadCloser
		size int64
		err  error
	)
	if isRemote(url) {
		r, size, err = openRemote(ctx, url)
	} else {
		r, size, err = openLocal(url)
	}
	if err != nil {
		return DownloadError(url, err)
	}
	defer r.Close()

	dir := filepath.Dir(path)
	if err = gnsys.MakeDir(dir); err != nil {
		return DownloadError(url, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return DownloadError(url, err)
	}
	defer f.Close()

	bar := pb.Full.Start64(size)
	bar.Set(pb.Bytes, true)
	bar.Set("prefix", "Downloading: ")
	bar.Set(pb.CleanOnFinish, true)
	defer bar.Finish()

	_, err = io.Copy(f, bar.NewProxyReader(r))
	if err != nil {
		return DownloadError(url, err)
	}

	gn.Info("Downloaded <em>%s</em>", url)
	return nil
}

func isRemote(url string) bool {
	return strings.HasPrefix(url, "http://") ||
		strings.HasPrefix(url, "https://")
}

func openRemote(
	ctx context.Context,
	url string,
) (io.ReadCloser, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, 0, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return resp.Body, resp.ContentLength, nil
}

func openLocal(path string) (io.ReadCloser, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, info.Size(), nil
}

// Extract unpacks nodes.dmp, names.dmp and merged.dmp from the gzipped
// tar archive into dumpDir. The dumpDir is cleaned first. The archive
// must contain at least nodes.dmp and names.dmp.
func Extract(archive, dumpDir string) error {
	slog.Info("Extracting taxonomy dump", "archive", archive, "dir", dumpDir)

	err := gnsys.MakeDir(dumpDir)
	if err != nil {
		return ExtractError(archive, err)
	}
	err = gnsys.CleanDir(dumpDir)
	if err != nil {
		return ExtractError(archive, err)
	}

	f, err := os.Open(archive)
	if err != nil {
		return ExtractError(archive, err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return ExtractError(archive, err)
	}
	defer gz.Close()

	found := make(map[string]bool)
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return ExtractError(archive, err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		name := filepath.Base(hdr.Name)
		if _, ok := dumpFiles[name]; !ok {
			continue
		}

		err = writeFile(filepath.Join(dumpDir, name), tr)
		if err != nil {
			return ExtractError(archive, err)
		}
		found[name] = true
	}

	for k, required := range dumpFiles {
		if required && !found[k] {
			err = fmt.Errorf("archive has no %s", k)
			return ExtractError(archive, err)
		}
	}
	return nil
}

func writeFile(path string, r io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	_, err = io.Copy(f, r)
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// HasDump returns true if dumpDir contains required dump files.
func HasDump(dumpDir string) bool {
	for k, required := range dumpFiles {
		if !required {
			continue
		}
		info, err := os.Stat(filepath.Join(dumpDir, k))
		if err != nil || info.IsDir() {
			return false
		}
	}
	return true
}

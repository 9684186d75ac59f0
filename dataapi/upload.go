package dataapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
)

const uploadPath = "assets/upload"

// uploadFields are copied from params into the multipart body when present
var uploadFields = []string{
	"autoRenameIfExists",
	"autoRenameNonAscii",
	"normalizeOrientation",
	"path",
	"site_id",
}

// namedReader is satisfied by *os.File and afero.File
type namedReader interface {
	io.Reader
	Name() string
}

// UploadFile uploads an asset. params must contain "site_id" and "file";
// otherwise an error Result is returned and nothing is sent.
//
// The "file" value may be a []byte (literal content), an io.Reader, or a
// string. A string naming an existing file is streamed from disk with its
// base name as the filename; any other string is sent as literal content.
func (c *Client) UploadFile(ctx context.Context, params Params, overwriteOnce bool) (Result, error) {
	if _, ok := params["site_id"]; !ok {
		return errorResult(msgSiteIDRequired), nil
	}
	file, ok := params["file"]
	if !ok {
		return errorResult(msgFileRequired), nil
	}

	fields := make(map[string]string, len(uploadFields)+1)
	for _, name := range uploadFields {
		if v, ok := params[name]; ok {
			fields[name] = stringify(v)
		}
	}

	req := c.withAccessToken(c.http.R())

	switch v := file.(type) {
	case string:
		if !c.isLocalFile(v) {
			fields["file"] = v
			break
		}
		f, err := c.cfg.fs.Open(v)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", v, err)
		}
		defer f.Close()
		req.SetFileReader("file", filepath.Base(v), f)
	case []byte:
		fields["file"] = string(v)
	case namedReader:
		req.SetFileReader("file", filepath.Base(v.Name()), v)
	case io.Reader:
		content, err := io.ReadAll(v)
		if err != nil {
			return nil, fmt.Errorf("failed to read upload content: %w", err)
		}
		fields["file"] = string(content)
	default:
		return nil, fmt.Errorf("unsupported file parameter type %T", file)
	}

	req.SetMultipartFormData(fields)
	if overwriteOnce {
		req.SetQueryParam("overwrite_once", "1")
	}

	return c.do(ctx, req, http.MethodPost, uploadPath)
}

// isLocalFile reports whether path names a regular file on the client's filesystem
func (c *Client) isLocalFile(path string) bool {
	if path == "" {
		return false
	}
	info, err := c.cfg.fs.Stat(path)
	return err == nil && !info.IsDir()
}

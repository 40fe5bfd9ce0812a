package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/filesystem"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

func formString(e *core.RequestEvent, key string) string {
	return strings.TrimSpace(e.Request.FormValue(key))
}

// formFloat reads a number, ignoring thousands separators. Blank or invalid
// input is 0.
func formFloat(e *core.RequestEvent, key string) float64 {
	return cast.ToFloat64(strings.ReplaceAll(formString(e, key), ",", ""))
}

func formInt(e *core.RequestEvent, key string) int {
	return cast.ToInt(formString(e, key))
}

func formDecimal(e *core.RequestEvent, key string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.ReplaceAll(formString(e, key), ",", ""))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func formBool(e *core.RequestEvent, key string) bool {
	v := e.Request.FormValue(key)
	return v == "on" || cast.ToBool(v)
}

// uploadedFile returns the first file posted under key, or nil when none was
// sent.
func uploadedFile(e *core.RequestEvent, key string) (*filesystem.File, error) {
	files, err := e.FindUploadedFiles(key)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}
	return files[0], nil
}

// uploadedBytes reads the raw content of the file posted under key.
func uploadedBytes(e *core.RequestEvent, key string) (name string, data []byte, err error) {
	f, header, err := e.Request.FormFile(key)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, err
	}
	defer f.Close()
	data, err = io.ReadAll(f)
	return header.Filename, data, err
}

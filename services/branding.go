package services

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	stddraw "image/draw"
	_ "image/jpeg"
	"image/png"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"sync"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/filesystem"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/webp"

	"sitebook/calc"
	"sitebook/collections"
)

// LogoMaxSize is the longest edge of a stored logo, in pixels.
const LogoMaxSize = 256

var hexColorPattern = regexp.MustCompile(`^#([0-9a-f]{3}|[0-9a-f]{4}|[0-9a-f]{6}|[0-9a-f]{8})$`)

// NormalizeColor lower-cases a hex colour. ok is false for anything that is
// not #rgb, #rgba, #rrggbb or #rrggbbaa; empty is valid.
func NormalizeColor(c string) (string, bool) {
	c = strings.ToLower(strings.TrimSpace(c))
	if c == "" {
		return "", true
	}
	return c, hexColorPattern.MatchString(c)
}

// Branding is the look of the app and its printed documents. An empty
// ProjectID is the global default.
type Branding struct {
	ProjectID       string `json:"project,omitempty"`
	BrandName       string `json:"brand_name"`
	Tagline         string `json:"tagline"`
	SiteAddress     string `json:"site_address"`
	BackgroundType  string `json:"background_type"`
	BackgroundColor string `json:"background_color"`
	HasBackground   bool   `json:"has_background"`
	Logo            []byte `json:"-"`
	Background      []byte `json:"-"`
	BackgroundMime  string `json:"-"`
}

// HasLogo reports whether a normalised logo is available.
func (b Branding) HasLogo() bool { return len(b.Logo) > 0 }

func defaultBranding() Branding {
	return Branding{
		BrandName:      collections.DefaultBrandName,
		Tagline:        collections.DefaultBrandTagline,
		BackgroundType: "none",
	}
}

// BrandingStore holds the branding rows in memory. Reads never touch the
// database; Update persists first and swaps the cached copy after.
type BrandingStore struct {
	app core.App

	mu        sync.RWMutex
	byProject map[string]Branding
}

// NewBrandingStore returns an empty store. Call Load before serving.
func NewBrandingStore(app core.App) *BrandingStore {
	return &BrandingStore{app: app, byProject: map[string]Branding{}}
}

// Load replaces the cache with every project_settings row.
func (s *BrandingStore) Load() error {
	records, err := s.app.FindAllRecords("project_settings")
	if err != nil {
		return fmt.Errorf("load branding: %w", err)
	}

	loaded := make(map[string]Branding, len(records))
	for _, rec := range records {
		b, err := s.fromRecord(rec)
		if err != nil {
			log.Printf("branding: %s: %v", rec.Id, err)
		}
		loaded[b.ProjectID] = b
	}

	s.mu.Lock()
	s.byProject = loaded
	s.mu.Unlock()
	return nil
}

// Current returns the branding for a project, falling back to the global row
// and then to built-in defaults. Unset fields inherit from the global row.
func (s *BrandingStore) Current(projectID string) Branding {
	s.mu.RLock()
	defer s.mu.RUnlock()

	base := defaultBranding()
	if g, ok := s.byProject[""]; ok {
		base = merge(base, g)
	}
	if projectID == "" {
		return base
	}
	if p, ok := s.byProject[projectID]; ok {
		out := merge(base, p)
		out.ProjectID = projectID
		return out
	}
	return base
}

func merge(base, over Branding) Branding {
	if over.BrandName != "" {
		base.BrandName = over.BrandName
	}
	if over.Tagline != "" {
		base.Tagline = over.Tagline
	}
	if over.SiteAddress != "" {
		base.SiteAddress = over.SiteAddress
	}
	if over.BackgroundType != "" {
		base.BackgroundType = over.BackgroundType
		base.BackgroundColor = over.BackgroundColor
		base.HasBackground = over.HasBackground
		base.Background = over.Background
		base.BackgroundMime = over.BackgroundMime
	}
	if over.HasLogo() {
		base.Logo = over.Logo
	}
	return base
}

// BrandingUpdate is a settings form submission. Nil file slices leave the
// stored file unchanged.
type BrandingUpdate struct {
	ProjectID       string
	BrandName       string
	SiteAddress     string
	BackgroundType  string
	BackgroundColor string
	Logo            []byte
	Background      []byte
	RemoveLogo      bool
}

// Update validates and saves in, then refreshes the cached copy.
func (s *BrandingStore) Update(in BrandingUpdate) (Branding, error) {
	switch in.BackgroundType {
	case "", "none", "color", "image":
	default:
		return Branding{}, &calc.ValidationError{Field: "background_type", Message: "must be none, color or image"}
	}
	if in.BackgroundType == "" {
		in.BackgroundType = "none"
	}
	color, ok := NormalizeColor(in.BackgroundColor)
	if !ok {
		return Branding{}, &calc.ValidationError{Field: "background_color", Message: "Background colour must be a hex value such as #f5f5dc."}
	}

	var logoPNG []byte
	if len(in.Logo) > 0 {
		var err error
		logoPNG, err = NormalizeLogo(in.Logo)
		if err != nil {
			return Branding{}, &calc.ValidationError{Field: "logo", Message: err.Error()}
		}
	}

	col, err := s.app.FindCollectionByNameOrId("project_settings")
	if err != nil {
		return Branding{}, fmt.Errorf("project_settings collection: %w", err)
	}
	existing, err := s.app.FindRecordsByFilter(col, "project = {:pid}", "", 1, 0,
		map[string]any{"pid": in.ProjectID})
	if err != nil {
		return Branding{}, fmt.Errorf("find settings: %w", err)
	}

	var rec *core.Record
	if len(existing) > 0 {
		rec = existing[0]
	} else {
		rec = core.NewRecord(col)
		rec.Set("project", in.ProjectID)
	}
	rec.Set("brand_name", strings.TrimSpace(in.BrandName))
	rec.Set("site_address", strings.TrimSpace(in.SiteAddress))
	rec.Set("background_type", in.BackgroundType)
	rec.Set("background_color", color)

	switch {
	case logoPNG != nil:
		f, err := filesystem.NewFileFromBytes(logoPNG, "logo.png")
		if err != nil {
			return Branding{}, fmt.Errorf("logo file: %w", err)
		}
		rec.Set("logo", f)
	case in.RemoveLogo:
		rec.Set("logo", nil)
	}
	if len(in.Background) > 0 {
		name := "background" + imageExtension(http.DetectContentType(in.Background))
		f, err := filesystem.NewFileFromBytes(in.Background, name)
		if err != nil {
			return Branding{}, fmt.Errorf("background file: %w", err)
		}
		rec.Set("background", f)
	}

	if err := s.app.Save(rec); err != nil {
		return Branding{}, fmt.Errorf("save settings: %w", err)
	}

	b, err := s.fromRecord(rec)
	if err != nil {
		log.Printf("branding: reload %s: %v", rec.Id, err)
	}
	if logoPNG != nil {
		b.Logo = logoPNG
	}

	s.mu.Lock()
	s.byProject[b.ProjectID] = b
	s.mu.Unlock()

	return s.Current(in.ProjectID), nil
}

func (s *BrandingStore) fromRecord(rec *core.Record) (Branding, error) {
	b := Branding{
		ProjectID:       rec.GetString("project"),
		BrandName:       rec.GetString("brand_name"),
		SiteAddress:     rec.GetString("site_address"),
		BackgroundType:  rec.GetString("background_type"),
		BackgroundColor: rec.GetString("background_color"),
	}

	var errs []error
	if name := rec.GetString("logo"); name != "" {
		data, err := readRecordFile(s.app, rec, name)
		if err != nil {
			errs = append(errs, fmt.Errorf("logo: %w", err))
		} else {
			b.Logo = data
		}
	}
	if name := rec.GetString("background"); name != "" {
		data, err := readRecordFile(s.app, rec, name)
		if err != nil {
			errs = append(errs, fmt.Errorf("background: %w", err))
		} else {
			b.Background = data
			b.BackgroundMime = http.DetectContentType(data)
			b.HasBackground = true
		}
	}
	return b, errors.Join(errs...)
}

func readRecordFile(app core.App, rec *core.Record, name string) ([]byte, error) {
	fsys, err := app.NewFilesystem()
	if err != nil {
		return nil, err
	}
	defer fsys.Close()

	r, err := fsys.GetReader(rec.BaseFilesPath() + "/" + name)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(io.LimitReader(r, 10<<20))
}

func imageExtension(mime string) string {
	switch mime {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}

// NormalizeLogo decodes a png, jpeg or webp image and re-encodes it as a PNG
// no larger than LogoMaxSize on its longest edge, keeping the aspect ratio.
// The PDF renderer only embeds png and jpeg.
func NormalizeLogo(raw []byte) ([]byte, error) {
	switch http.DetectContentType(raw) {
	case "image/png", "image/jpeg", "image/webp":
	default:
		return nil, errors.New("logo must be png, jpeg, or webp")
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		decoded, webpErr := webp.Decode(bytes.NewReader(raw))
		if webpErr != nil {
			return nil, errors.New("unable to decode logo")
		}
		img = decoded
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, errors.New("invalid image dimensions")
	}

	tw, th := w, h
	if w > LogoMaxSize || h > LogoMaxSize {
		if w >= h {
			tw, th = LogoMaxSize, max(1, h*LogoMaxSize/w)
		} else {
			tw, th = max(1, w*LogoMaxSize/h), LogoMaxSize
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	if tw == w && th == h {
		stddraw.Draw(dst, dst.Bounds(), img, bounds.Min, stddraw.Src)
	} else {
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)
	}

	var out bytes.Buffer
	if err := png.Encode(&out, dst); err != nil {
		return nil, fmt.Errorf("encode logo: %w", err)
	}
	return out.Bytes(), nil
}

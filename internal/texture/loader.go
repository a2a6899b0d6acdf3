package texture

import (
	"image"
	"image/color"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
)

const ErrTypeTextureLoad = "texture-load"

// Load decodes an image file into a texture.
func Load(path string) (*Texture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.New("opening texture failed").
			WithType(ErrTypeTextureLoad).
			WithTag("path", path).
			Wrap(err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, errors.New("decoding texture failed").
			WithType(ErrTypeTextureLoad).
			WithTag("path", path).
			Wrap(err)
	}
	return FromImage(img), nil
}

// LoadSky loads a panorama and mirrors it so the heading wraps seamlessly.
func LoadSky(path string) (*Texture, error) {
	t, err := Load(path)
	if err != nil {
		return nil, err
	}
	return t.MirrorWide(), nil
}

// Library resolves named sprites from a list of directories, caching both
// hits and misses so the file system is probed once per name.
type Library struct {
	dirs    []string
	sprites map[string]*Texture
	missing map[string]bool
}

// NewLibrary searches dirs in order for "<name>.png".
func NewLibrary(dirs ...string) *Library {
	return &Library{
		dirs:    dirs,
		sprites: make(map[string]*Texture),
		missing: make(map[string]bool),
	}
}

// Lookup returns the named sprite, or false when no directory has it.
func (l *Library) Lookup(name string) (*Texture, bool) {
	if t, ok := l.sprites[name]; ok {
		return t, true
	}
	if l.missing[name] {
		return nil, false
	}

	for _, dir := range l.dirs {
		path := filepath.Join(dir, name+".png")
		if _, err := os.Stat(path); err != nil {
			continue
		}
		t, err := Load(path)
		if err != nil {
			logs.Warn(err)
			continue
		}
		l.sprites[name] = t
		return t, true
	}

	l.missing[name] = true
	return nil, false
}

// Get returns the named sprite or, when it cannot be found, the fallback.
// A nil fallback yields a grey placeholder.
func (l *Library) Get(name string, fallback func() *Texture) *Texture {
	if t, ok := l.Lookup(name); ok {
		return t
	}

	logs.WithTag("sprite", name).Debug("sprite not found, using placeholder")
	var t *Texture
	if fallback != nil {
		t = fallback()
	}
	if t == nil {
		t = Solid(16, 16, color.RGBA{128, 128, 128, 255})
	}
	l.sprites[name] = t
	return t
}

package extractor

import (
	"net/url"
	"path"
	"strings"

	"github.com/grimpo6/helloasso-certificates/internal/helloasso"
	"github.com/grimpo6/helloasso-certificates/internal/label"
)

// Kind names a document category; it is also the file name suffix
type Kind string

const (
	KindCertificate Kind = "certificat"
	KindWaiver      Kind = "attestation"
)

// Kinds lists the categories in the order they are searched
var Kinds = []Kind{KindCertificate, KindWaiver}

// Fragments returns the normalized label fragments identifying a kind
func (k Kind) Fragments() []string {
	switch k {
	case KindCertificate:
		return []string{"certificat-medical"}
	case KindWaiver:
		return []string{"decharge", "attestation"}
	default:
		return nil
	}
}

// FindField returns the first field whose normalized name contains one of the
// kind's fragments, or nil.
func FindField(fields []helloasso.CustomField, kind Kind) *helloasso.CustomField {
	fragments := kind.Fragments()
	for i := range fields {
		if label.Contains(fields[i].Name, fragments...) {
			return &fields[i]
		}
	}
	return nil
}

// FilePrefix builds "<Lastname>_<Firstname>" from normalized, capitalized names
func FilePrefix(user *helloasso.User) string {
	last := label.Capitalize(label.Normalize(user.LastName))
	first := label.Capitalize(label.Normalize(user.FirstName))
	return last + "_" + first
}

// FileExtension returns the final dot-segment of the URL path, without the dot.
// Query strings and fragments are deliberately left out of the extension. It
// returns "" when the path has no extension.
func FileExtension(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	return strings.TrimPrefix(path.Ext(p), ".")
}

// FileName returns "<prefix>-<kind>.<ext>", or "<prefix>-<kind>" without extension
func FileName(prefix string, kind Kind, ext string) string {
	name := prefix + "-" + string(kind)
	if ext != "" {
		name += "." + ext
	}
	return name
}

package urladdr

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// URL is an immutable addressable resource identifier. Two URLs with the
// same canonical String() are considered equal; compare via String(), not
// struct equality, since Path may carry dot-segments before normalization.
type URL struct {
	Scheme   string
	Host     string // net-location: userinfo@host:port, verbatim
	Path     string
	RawQuery string
	Fragment string
}

// Parse tokenizes s into a URL. It defers to net/url for the mechanical
// split of scheme/authority/path/query/fragment; everything past that
// (relative resolution, zip addressing) is ours. zip:// strings are split
// by hand, since net/url rejects the percent-encoded archive URL that
// EntryURLFor places in the net-location.
func Parse(s string) (URL, error) {
	if rest, ok := strings.CutPrefix(s, "zip://"); ok {
		out := URL{Scheme: "zip"}
		rest, out.Fragment, _ = strings.Cut(rest, "#")
		rest, out.RawQuery, _ = strings.Cut(rest, "?")
		out.Host = rest
		if i := strings.Index(rest, "/"); i >= 0 {
			out.Host, out.Path = rest[:i], rest[i:]
		}
		return out, nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return URL{}, fmt.Errorf("urladdr: parse %q: %w", s, err)
	}
	host := u.Host
	if u.User != nil {
		host = u.User.String() + "@" + host
	}
	return URL{
		Scheme:   u.Scheme,
		Host:     host,
		Path:     u.Path,
		RawQuery: u.RawQuery,
		Fragment: u.Fragment,
	}, nil
}

// String reconstructs the canonical string form.
func (u URL) String() string {
	var b strings.Builder
	if u.Scheme != "" {
		b.WriteString(u.Scheme)
		b.WriteString(":")
	}
	if u.Host != "" || u.Scheme == "file" || u.Scheme == "zip" {
		b.WriteString("//")
		b.WriteString(u.Host)
	}
	b.WriteString(u.Path)
	if u.RawQuery != "" {
		b.WriteString("?")
		b.WriteString(u.RawQuery)
	}
	if u.Fragment != "" {
		b.WriteString("#")
		b.WriteString(u.Fragment)
	}
	return b.String()
}

// PathExtension returns the final path segment's extension, without the
// leading dot, lowercased for case-insensitive comparison against "zip",
// "yaml", "yml".
func (u URL) PathExtension() string {
	ext := path.Ext(u.Path)
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsZipArchive reports whether this URL's path extension marks it as a
// zip archive, per spec §4.1: such a URL is treated as an archive root
// when resolving imports against it.
func (u URL) IsZipArchive() bool {
	return u.PathExtension() == "zip"
}

// Resolve implements RFC-3986 §5.3 reference resolution of rel against u,
// with one addition: when u is a zip:// URL, the merge treats u's Path as
// the archive's entry-path root, so relative entries resolve against the
// archive's internal directory rather than against the filesystem/HTTP
// path of the archive file itself.
func (u URL) Resolve(rel string) (URL, error) {
	r, err := Parse(rel)
	if err != nil {
		return URL{}, err
	}

	if r.Scheme != "" {
		r.Path = removeDotSegments(r.Path)
		return r, nil
	}
	r.Scheme = u.Scheme

	if r.Host != "" {
		r.Path = removeDotSegments(r.Path)
		return r, nil
	}
	r.Host = u.Host

	switch {
	case r.Path == "":
		r.Path = u.Path
		if r.RawQuery == "" {
			r.RawQuery = u.RawQuery
		}
	case strings.HasPrefix(r.Path, "/"):
		r.Path = removeDotSegments(r.Path)
	default:
		r.Path = removeDotSegments(mergePaths(u, r.Path))
	}
	return r, nil
}

// mergePaths implements RFC-3986 §5.3's merge step: if the base has an
// authority and an empty path, the merged path is "/" + ref; otherwise it
// is everything up to and including the base's last "/", plus ref.
func mergePaths(base URL, ref string) string {
	if base.Host != "" && base.Path == "" {
		return "/" + ref
	}
	if i := strings.LastIndex(base.Path, "/"); i >= 0 {
		return base.Path[:i+1] + ref
	}
	return ref
}

// removeDotSegments implements RFC-3986 §5.2.4.
func removeDotSegments(p string) string {
	var out []string
	rest := p
	for rest != "" {
		switch {
		case strings.HasPrefix(rest, "../"):
			rest = rest[3:]
		case strings.HasPrefix(rest, "./"):
			rest = rest[2:]
		case strings.HasPrefix(rest, "/./"):
			rest = "/" + rest[3:]
		case rest == "/.":
			rest = "/"
		case strings.HasPrefix(rest, "/../"):
			rest = "/" + rest[4:]
			if n := len(out); n > 0 {
				out = out[:n-1]
			}
		case rest == "/..":
			rest = "/"
			if n := len(out); n > 0 {
				out = out[:n-1]
			}
		case rest == "." || rest == "..":
			rest = ""
		default:
			i := strings.Index(rest[1:], "/")
			var seg string
			if i < 0 {
				seg = rest
				rest = ""
			} else {
				seg = rest[:i+1]
				rest = rest[i+1:]
			}
			out = append(out, seg)
		}
	}
	return strings.Join(out, "")
}

// EscapeReserved percent-encodes s so it is safe to embed as a single
// net-location component (used to pack an archive URL into a zip:// URL).
func EscapeReserved(s string) string {
	return url.QueryEscape(s)
}

// UnescapeReserved reverses EscapeReserved.
func UnescapeReserved(s string) (string, error) {
	out, err := url.QueryUnescape(s)
	if err != nil {
		return "", fmt.Errorf("urladdr: unescape %q: %w", s, err)
	}
	return out, nil
}

// EntryURLFor builds the zip:// URL addressing entryPath inside the
// archive at archiveURL.
func EntryURLFor(archiveURL URL, entryPath string) URL {
	return URL{
		Scheme: "zip",
		Host:   EscapeReserved(archiveURL.String()),
		Path:   "/" + strings.TrimPrefix(entryPath, "/"),
	}
}

// ArchiveURLForEntry recovers the archive URL A such that
// ArchiveURLForEntry(EntryURLFor(A, p)) == A for any entry path p.
func ArchiveURLForEntry(entryURL URL) (URL, error) {
	if entryURL.Scheme != "zip" {
		return URL{}, fmt.Errorf("urladdr: %q is not a zip:// URL", entryURL.String())
	}
	raw, err := UnescapeReserved(entryURL.Host)
	if err != nil {
		return URL{}, err
	}
	return Parse(raw)
}

// EntryPath returns the archive-internal path addressed by a zip:// URL,
// with the leading "/" stripped.
func (u URL) EntryPath() string {
	return strings.TrimPrefix(u.Path, "/")
}

package urladdr_test

import (
	"testing"

	"mapengine/urladdr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	base, err := urladdr.Parse("https://example.com/styles/root.yaml")
	require.NoError(t, err)

	t.Run("RelativeSibling", func(t *testing.T) {
		got, err := base.Resolve("textures/pois.png")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/styles/textures/pois.png", got.String())
	})

	t.Run("AbsolutePath", func(t *testing.T) {
		got, err := base.Resolve("/assets/icon.png")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/assets/icon.png", got.String())
	})

	t.Run("AbsoluteURL", func(t *testing.T) {
		got, err := base.Resolve("http://other.example/x.yaml")
		require.NoError(t, err)
		assert.Equal(t, "http://other.example/x.yaml", got.String())
	})

	t.Run("DotSegments", func(t *testing.T) {
		got, err := base.Resolve("../shared/fonts.yaml")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/shared/fonts.yaml", got.String())
	})

	t.Run("Associative", func(t *testing.T) {
		a := "sub/a.yaml"
		b := "../b.yaml"
		viaAB, err := base.Resolve(a)
		require.NoError(t, err)
		viaAB, err = viaAB.Resolve(b)
		require.NoError(t, err)

		aParsed, err := base.Resolve(a)
		require.NoError(t, err)
		direct, err := aParsed.Resolve(b)
		require.NoError(t, err)

		assert.Equal(t, direct.String(), viaAB.String())
	})
}

func TestPathExtension(t *testing.T) {
	u, err := urladdr.Parse("https://example.com/bundle.zip")
	require.NoError(t, err)
	assert.Equal(t, "zip", u.PathExtension())
	assert.True(t, u.IsZipArchive())
}

func TestZipEntryRoundTrip(t *testing.T) {
	archive, err := urladdr.Parse("https://example.com/styles/bundle.zip")
	require.NoError(t, err)

	entry := urladdr.EntryURLFor(archive, "img/x.png")
	assert.Equal(t, "zip", entry.Scheme)
	assert.Equal(t, "img/x.png", entry.EntryPath())

	recovered, err := urladdr.ArchiveURLForEntry(entry)
	require.NoError(t, err)
	assert.Equal(t, archive.String(), recovered.String())
}

func TestZipEntryResolve(t *testing.T) {
	archive, err := urladdr.Parse("https://example.com/styles/bundle.zip")
	require.NoError(t, err)
	zipRoot := urladdr.EntryURLFor(archive, "")

	got, err := zipRoot.Resolve("img/x.png")
	require.NoError(t, err)
	assert.Equal(t, "img/x.png", got.EntryPath())
	assert.Equal(t, "zip", got.Scheme)
}

func TestArchiveURLForEntry_RejectsNonZip(t *testing.T) {
	u, err := urladdr.Parse("https://example.com/a.yaml")
	require.NoError(t, err)
	_, err = urladdr.ArchiveURLForEntry(u)
	assert.Error(t, err)
}

package prodcrawl_test

import (
	"testing"

	"github.com/fwojciec/prodcrawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "adds root path", url: "https://example.com", want: "https://example.com/"},
		{name: "lowercases scheme and host", url: "HTTPS://Example.COM/Shop", want: "https://example.com/Shop"},
		{name: "strips fragment", url: "https://example.com/p#reviews", want: "https://example.com/p"},
		{name: "drops default https port", url: "https://example.com:443/p", want: "https://example.com/p"},
		{name: "drops default http port", url: "http://example.com:80/p", want: "http://example.com/p"},
		{name: "keeps other ports", url: "http://example.com:8080/p", want: "http://example.com:8080/p"},
		{name: "keeps query", url: "https://example.com/p?id=1", want: "https://example.com/p?id=1"},
		{name: "keeps trailing slash", url: "https://example.com/p/", want: "https://example.com/p/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := prodcrawl.NormalizeURL(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeURL_DuplicateVariants(t *testing.T) {
	t.Parallel()

	norm := func(raw string) string {
		s, err := prodcrawl.NormalizeURL(raw)
		require.NoError(t, err)
		return s
	}

	t.Run("host case variants are duplicates", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, norm("https://Example.com/item"), norm("https://example.com/item"))
	})

	t.Run("empty path and root slash are duplicates", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, norm("https://example.com"), norm("https://example.com/"))
	})

	t.Run("trailing slash variants are distinct", func(t *testing.T) {
		t.Parallel()
		assert.NotEqual(t, norm("https://example.com/item/"), norm("https://example.com/item"))
	})

	t.Run("path case variants are distinct", func(t *testing.T) {
		t.Parallel()
		assert.NotEqual(t, norm("https://example.com/Item"), norm("https://example.com/item"))
	})
}

func TestNormalizeURL_RejectsRelative(t *testing.T) {
	t.Parallel()

	_, err := prodcrawl.NormalizeURL("/products/1")

	assert.Equal(t, prodcrawl.EINVALID, prodcrawl.ErrorCode(err))
}

func TestValidateSeed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		seed    string
		wantErr bool
	}{
		{name: "https", seed: "https://shop.example.com/"},
		{name: "http", seed: "http://shop.example.com"},
		{name: "empty", seed: "   ", wantErr: true},
		{name: "relative", seed: "shop.example.com", wantErr: true},
		{name: "ftp", seed: "ftp://shop.example.com/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := prodcrawl.ValidateSeed(tt.seed)
			if tt.wantErr {
				assert.Equal(t, prodcrawl.EINVALID, prodcrawl.ErrorCode(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestOrigin(t *testing.T) {
	t.Parallel()

	got, err := prodcrawl.Origin("HTTPS://Shop.Example.com:443/a/b?c=d#e")

	require.NoError(t, err)
	assert.Equal(t, "https://shop.example.com", got)
}

func TestScope_Contains(t *testing.T) {
	t.Parallel()

	const origin = "https://shop.example"

	tests := []struct {
		name  string
		scope prodcrawl.Scope
		url   string
		want  bool
	}{
		{name: "origin same host", scope: prodcrawl.ScopeOrigin, url: "https://shop.example/p", want: true},
		{name: "origin other host", scope: prodcrawl.ScopeOrigin, url: "https://other.example/p", want: false},
		{name: "origin embedded host", scope: prodcrawl.ScopeOrigin, url: "https://shop.example.evil.net/p", want: false},
		{name: "origin other scheme", scope: prodcrawl.ScopeOrigin, url: "http://shop.example/p", want: false},
		{name: "substring same host", scope: prodcrawl.ScopeSubstring, url: "https://shop.example/p", want: true},
		{name: "substring embedded host", scope: prodcrawl.ScopeSubstring, url: "https://shop.example.evil.net/p", want: true},
		{name: "substring other host", scope: prodcrawl.ScopeSubstring, url: "https://other.example/p", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.scope.Contains(origin, tt.url))
		})
	}
}

func TestScope_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, prodcrawl.ScopeOrigin.Validate())
	assert.NoError(t, prodcrawl.ScopeSubstring.Validate())
	assert.Equal(t, prodcrawl.EINVALID, prodcrawl.ErrorCode(prodcrawl.Scope("host").Validate()))
}

package proxy

import (
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func FuzzGetProxy(f *testing.F) {
	f.Add(uint32(1), uint32(10))
	f.Fuzz(func(t *testing.T, index uint32, urlCounts uint32) {
		if urlCounts > 1024 {
			t.Skip()
		}
		r := roundRobinSwitcher{index: index}
		r.proxyURLs = make([]*url.URL, urlCounts)
		for i := 0; i < int(urlCounts); i++ {
			r.proxyURLs[i] = &url.URL{Host: strconv.Itoa(i)}
		}

		p, err := r.GetProxy(nil)
		if urlCounts == 0 {
			assert.ErrorIs(t, err, ErrEmptyList)
			return
		}
		require.NoError(t, err)
		assert.Equal(t, r.proxyURLs[index%urlCounts], p)
	})
}

func TestRoundRobinProxySwitcher(t *testing.T) {
	_, err := RoundRobinProxySwitcher()
	assert.ErrorIs(t, err, ErrEmptyList)

	p, err := RoundRobinProxySwitcher("127.0.0.1:8888", "socks5://127.0.0.1:1080")
	require.NoError(t, err)

	first, err := p(nil)
	require.NoError(t, err)
	assert.Equal(t, "http", first.Scheme)
	assert.Equal(t, "127.0.0.1:8888", first.Host)

	second, err := p(nil)
	require.NoError(t, err)
	assert.Equal(t, "socks5", second.Scheme)

	third, _ := p(nil)
	assert.Equal(t, first, third)
}

package memhost_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/flatmark/internal/memhost"
	"github.com/jcorbin/flatmark/internal/richtext"
)

func frameText(t *testing.T, fr *memhost.Frame) string {
	s, err := fr.Range().Text()
	require.NoError(t, err, "must read frame text")
	return s
}

func subRange(t *testing.T, r richtext.Range, start, length int) richtext.Range {
	sub, err := r.SubRange(start, length)
	require.NoError(t, err, "must get sub-range [%v, %v)", start, start+length)
	return sub
}

func TestFrame_deferred(t *testing.T) {
	ctx := context.Background()
	fr := memhost.New("hello")

	require.NoError(t, fr.Range().SetText("abc"))
	assert.Equal(t, "hello", frameText(t, fr), "expected uncommitted text")
	assert.Equal(t, 1, fr.Pending(), "expected pending mutation")

	require.NoError(t, fr.Sync(ctx))
	assert.Equal(t, "abc", frameText(t, fr), "expected committed text")
	assert.Equal(t, 0, fr.Pending(), "expected no pending mutations")

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	assert.True(t, errors.Is(fr.Sync(canceled), context.Canceled), "expected canceled sync")
}

func TestFrame_normalize(t *testing.T) {
	ctx := context.Background()
	for _, tc := range []struct {
		name      string
		normalize func(string) string
		expected  int
	}{
		{"nfc", nil, 1},
		{"none", memhost.NoNormalize, 2},
	} {
		t.Run(tc.name, func(t *testing.T) {
			fr := memhost.New("")
			if tc.normalize != nil {
				fr.Normalize = tc.normalize
			}
			require.NoError(t, fr.Range().SetText("e\u0301"))
			require.NoError(t, fr.Sync(ctx))
			n, err := fr.Range().Len()
			require.NoError(t, err)
			assert.Equal(t, tc.expected, n, "expected committed length")
		})
	}
}

func TestFrame_subRange(t *testing.T) {
	fr := memhost.New("hello world")
	whole := fr.Range()

	sub := subRange(t, whole, 6, 5)
	s, err := sub.Text()
	require.NoError(t, err)
	assert.Equal(t, "world", s)

	inner := subRange(t, sub, 1, 2)
	s, err = inner.Text()
	require.NoError(t, err)
	assert.Equal(t, "or", s)

	for _, bad := range [][2]int{{6, 6}, {-1, 2}, {0, -1}, {12, 0}} {
		_, err := whole.SubRange(bad[0], bad[1])
		assert.True(t, errors.Is(err, richtext.ErrOutOfRange), "expected out of range error for %v, got %v", bad, err)
	}
	_, err = sub.SubRange(4, 2)
	assert.True(t, errors.Is(err, richtext.ErrOutOfRange), "expected nested out of range error, got %v", err)

	hookErr := errors.New("nope")
	fr.FailSubRange = func(start, length int) error {
		if start == 6 {
			return hookErr
		}
		return nil
	}
	_, err = whole.SubRange(6, 1)
	assert.Equal(t, hookErr, err, "expected hook failure")
	_, err = whole.SubRange(0, 1)
	assert.NoError(t, err, "expected other sub-ranges to succeed")
}

func TestFrame_format(t *testing.T) {
	ctx := context.Background()
	fr := memhost.New("abcdefgh")
	whole := fr.Range()

	require.NoError(t, subRange(t, whole, 0, 5).SetBold(true))
	f, ok := fr.FormatAt(0)
	assert.True(t, ok)
	assert.Equal(t, memhost.Format{}, f, "expected uncommitted format")
	require.NoError(t, fr.Sync(ctx))
	assert.Equal(t, []memhost.Run{
		{Start: 0, Length: 5, Format: memhost.Format{Bold: true}},
	}, fr.Runs())

	require.NoError(t, subRange(t, whole, 3, 5).SetItalic(true))
	require.NoError(t, fr.Sync(ctx))
	assert.Equal(t, []memhost.Run{
		{Start: 0, Length: 3, Format: memhost.Format{Bold: true}},
		{Start: 3, Length: 2, Format: memhost.Format{Bold: true, Italic: true}},
		{Start: 5, Length: 3, Format: memhost.Format{Italic: true}},
	}, fr.Runs())

	assert.Error(t, subRange(t, whole, 0, 1).SetFontSize(0), "expected invalid size error")

	_, ok = fr.FormatAt(8)
	assert.False(t, ok, "expected no format past the end")

	require.NoError(t, whole.SetText("xy"))
	require.NoError(t, fr.Sync(ctx))
	assert.Empty(t, fr.Runs(), "expected rewritten text to be unformatted")
}

func TestFrame_staleRange(t *testing.T) {
	ctx := context.Background()
	fr := memhost.New("hello world")
	sub := subRange(t, fr.Range(), 6, 5)

	require.NoError(t, fr.Range().SetText("hi"))
	require.NoError(t, fr.Sync(ctx))

	require.NoError(t, sub.SetBold(true))
	err := fr.Sync(ctx)
	assert.True(t, errors.Is(err, richtext.ErrOutOfRange), "expected stale range to fail on commit, got %v", err)
	assert.Empty(t, fr.Runs())
}

func TestFrame_bullets(t *testing.T) {
	ctx := context.Background()
	fr := memhost.New("a\nbb\nc\n")

	require.NoError(t, subRange(t, fr.Range(), 2, 1).SetBulletVisible(true))
	require.NoError(t, fr.Sync(ctx))
	assert.Equal(t, []memhost.Paragraph{
		{Start: 0, Length: 2, Text: "a"},
		{Start: 2, Length: 3, Text: "bb", Bullet: true},
		{Start: 5, Length: 2, Text: "c"},
	}, fr.Paragraphs())

	require.NoError(t, subRange(t, fr.Range(), 3, 3).SetBulletVisible(true))
	require.NoError(t, fr.Sync(ctx))
	var bullets []string
	for _, para := range fr.Paragraphs() {
		if para.Bullet {
			bullets = append(bullets, para.Text)
		}
	}
	assert.Equal(t, []string{"bb", "c"}, bullets, "expected every touched paragraph bulleted")
}

func TestFrame_failSync(t *testing.T) {
	ctx := context.Background()
	syncErr := errors.New("sync failed")
	fr := memhost.New("")
	fr.FailSync = func(n int) error {
		if n == 2 {
			return syncErr
		}
		return nil
	}

	require.NoError(t, fr.Range().SetText("hello"))
	require.NoError(t, fr.Sync(ctx))

	require.NoError(t, subRange(t, fr.Range(), 0, 5).SetBold(true))
	assert.Equal(t, syncErr, fr.Sync(ctx), "expected second sync to fail")
	assert.Equal(t, 0, fr.Pending(), "expected failed mutations discarded")
	assert.Empty(t, fr.Runs(), "expected no committed format")

	require.NoError(t, subRange(t, fr.Range(), 0, 5).SetBold(true))
	require.NoError(t, fr.Sync(ctx))
	assert.Len(t, fr.Runs(), 1)
}

func TestFrame_shape(t *testing.T) {
	ctx := context.Background()
	fr := memhost.New("Title\nitem\n")
	title := subRange(t, fr.Range(), 0, 5)
	require.NoError(t, title.SetBold(true))
	require.NoError(t, title.SetFontSize(28))
	require.NoError(t, subRange(t, fr.Range(), 6, 5).SetBulletVisible(true))
	require.NoError(t, fr.Sync(ctx))

	sh := fr.Shape()
	assert.Equal(t, memhost.Shape{
		Text: "Title\nitem\n",
		Runs: []memhost.Run{
			{Start: 0, Length: 5, Format: memhost.Format{Bold: true, Size: 28}},
		},
		Bullets: []int{1},
	}, sh)
	assert.Equal(t, sh, memhost.Load(sh).Shape(), "expected loaded shape to round trip")

	var buf bytes.Buffer
	_, err := fr.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, "[b 28]Title[/]\n• item\n", buf.String())
}

func TestFormat_String(t *testing.T) {
	assert.Equal(t, "plain", memhost.Format{}.String())
	assert.Equal(t, "b i 20", memhost.Format{Bold: true, Italic: true, Size: 20}.String())
	assert.Equal(t, "i", memhost.Format{Italic: true}.String())
}

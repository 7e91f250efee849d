package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeCursor(t *testing.T) {
	// Standard values
	c := Cursor{
		Date:      time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2024, 5, 15, 14, 30, 45, 123456789, time.UTC),
		ID:        "5b0c6c1e-2f4e-4c43-9a4c-0f1e7d2d9f11",
	}

	token := EncodeCursor(c)
	assert.NotEmpty(t, token, "Token should not be empty")

	decoded, err := DecodeCursor(token)
	require.NoError(t, err)
	assert.True(t, c.Date.Equal(decoded.Date))
	assert.True(t, c.CreatedAt.Equal(decoded.CreatedAt))
	assert.Equal(t, c.ID, decoded.ID)

	// Zero time values
	zero := Cursor{ID: "x"}
	decodedZero, err := DecodeCursor(EncodeCursor(zero))
	require.NoError(t, err)
	assert.True(t, decodedZero.Date.IsZero())
	assert.True(t, decodedZero.CreatedAt.IsZero())
}

func TestDecodeCursorError(t *testing.T) {
	_, err := DecodeCursor("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode")

	missingFields := base64.URLEncoding.EncodeToString([]byte("2024-05-15T00:00:00Z"))
	_, err = DecodeCursor(missingFields)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	badDate := base64.URLEncoding.EncodeToString([]byte("notadate|2024-05-15T00:00:00Z|id"))
	_, err = DecodeCursor(badDate)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "date parse")

	noID := base64.URLEncoding.EncodeToString([]byte("2024-05-15T00:00:00Z|2024-05-15T00:00:00Z|"))
	_, err = DecodeCursor(noID)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing id")
}

func TestCursorAfter(t *testing.T) {
	day1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	created := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)

	newer := Cursor{Date: day2, CreatedAt: created, ID: "a"}
	older := Cursor{Date: day1, CreatedAt: created, ID: "a"}
	assert.True(t, older.After(newer), "an earlier date is on a later page")
	assert.False(t, newer.After(older))

	sameDayEarlier := Cursor{Date: day2, CreatedAt: created.Add(-time.Minute), ID: "z"}
	assert.True(t, sameDayEarlier.After(newer))

	tieBreak := Cursor{Date: day2, CreatedAt: created, ID: "0"}
	assert.True(t, tieBreak.After(newer))
	assert.False(t, newer.After(newer), "a cursor is never after itself")
}

func TestMultiFieldToken(t *testing.T) {
	fields := []string{"field1", "field2", "field3"}
	token := EncodeMultiFieldToken(fields...)

	decoded, err := DecodeMultiFieldToken(token)
	require.NoError(t, err)
	assert.Equal(t, fields, decoded)

	_, err = DecodeMultiFieldToken("invalid base64!")
	assert.Error(t, err)
}

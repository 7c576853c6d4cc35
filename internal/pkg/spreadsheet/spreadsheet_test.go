package spreadsheet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeHeader(t *testing.T) {
	tests := map[string]string{
		"Date Of Birth":  "date_of_birth",
		"date-of-birth":  "date_of_birth",
		" DOB ":          "dob",
		"10th   Percent": "10th_percent",
		"":               "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeHeader(in), in)
	}
}

func TestRowPick(t *testing.T) {
	row := Row{"email_id": "a@b.edu", "name": "Asha"}

	assert.Equal(t, "a@b.edu", row.Pick("email", "email_id", "mail"))
	assert.Equal(t, "Asha", row.Pick("name"))
	assert.Equal(t, "", row.Pick("phone", "mobile"))
}

func TestRowPickInt(t *testing.T) {
	row := Row{"batch": "2024.0", "semester": "6", "cgpa": "8.4"}

	batch, ok := row.PickInt("batch_year", "batch")
	require.True(t, ok)
	assert.Equal(t, 2024, batch)

	sem, ok := row.PickInt("semester")
	require.True(t, ok)
	assert.Equal(t, 6, sem)

	// A genuine fraction is not an int
	_, ok = row.PickInt("cgpa")
	assert.False(t, ok)

	_, ok = row.PickInt("missing")
	assert.False(t, ok)
}

func TestRowPickFloat(t *testing.T) {
	row := Row{"cgpa": "8.4", "notes": "n/a"}

	cgpa, ok := row.PickFloat("cgpa")
	require.True(t, ok)
	assert.InDelta(t, 8.4, cgpa, 0.001)

	_, ok = row.PickFloat("notes")
	assert.False(t, ok)
}

func TestWriteParseRoundTrip(t *testing.T) {
	buf, err := Write(
		[]string{"Name", "Branch", "Batch Year"},
		[][]any{
			{"Asha Rao", "CS", 2024},
			{"Vikram Iyer", "EE", 2025},
		},
	)
	require.NoError(t, err)

	rows, err := Parse(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Asha Rao", rows[0].Pick("name"))
	assert.Equal(t, "CS", rows[0].Pick("branch"))

	year, ok := rows[1].PickInt("batch_year")
	require.True(t, ok)
	assert.Equal(t, 2025, year)
}

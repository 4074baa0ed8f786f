package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/servmatch/core"
)

const sampleCSV = `ID,Name,Service Type,Skills,Location,Rating,Days Available,Contact
1,Ram,Plumber,"Pipe Repair, Leak Fix",Kathmandu,4.5,Mon–Fri,98000001
2,Sita,Electrician,Wiring,Pokhara,3.8,Sat–Sun,98000002
3,Hari,Plumber,Leak Fix,Kathmandu,4.9,Fri–Mon,98000003
`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "service_dataset.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	providers, err := Load(writeFile(t, sampleCSV))
	require.NoError(t, err)
	require.Len(t, providers, 3)

	assert.Equal(t, core.Provider{
		ID:          1,
		Name:        "Ram",
		ServiceType: "Plumber",
		Location:    "Kathmandu",
		Rating:      4.5,
		Skills:      "Pipe Repair, Leak Fix",
		Days:        "Mon–Fri",
		Contact:     "98000001",
	}, providers[0])
	assert.Equal(t, int64(3), providers[2].ID)
}

func TestOpen_Fingerprint(t *testing.T) {
	a, err := Open(writeFile(t, sampleCSV))
	require.NoError(t, err)
	b, err := Open(writeFile(t, sampleCSV))
	require.NoError(t, err)
	c, err := Open(writeFile(t, strings.Replace(sampleCSV, "4.9", "4.8", 1)))
	require.NoError(t, err)

	assert.Equal(t, a.Fingerprint, b.Fingerprint)
	assert.NotEqual(t, a.Fingerprint, c.Fingerprint)
	assert.Zero(t, a.Dropped)
}

func TestOpen_DatasetNotFound(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, ErrDatasetNotFound)
}

func TestRead_MissingColumn(t *testing.T) {
	_, err := Read(strings.NewReader("ID,Name,Service Type,Skills,Location,Days Available,Contact\n"))
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = Read(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestRead_HeaderNormalization(t *testing.T) {
	csv := "\ufeffID, Name ,Service Type,Skills,Location,Rating,Days Available,Contact\n" +
		"7,Gita,Cleaner,,Lalitpur,4,,\n"
	providers, err := Read(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, providers, 1)
	assert.Equal(t, int64(7), providers[0].ID)
	assert.Equal(t, "Gita", providers[0].Name)
	assert.Equal(t, "", providers[0].Skills)
	assert.Equal(t, "", providers[0].Days)
}

func TestRead_DropsBadRows(t *testing.T) {
	csv := "ID,Name,Service Type,Skills,Location,Rating,Days Available,Contact\n" +
		"1,Ok,Plumber,,Kathmandu,4.0,Mon,\n" +
		"2,NoRating,Plumber,,Kathmandu,n/a,Mon,\n" +
		"3,NaN,Plumber,,Kathmandu,NaN,Mon,\n" +
		"4,TooHigh,Plumber,,Kathmandu,7,Mon,\n" +
		"-5,Negative,Plumber,,Kathmandu,4,Mon,\n" +
		"x,BadID,Plumber,,Kathmandu,4,Mon,\n" +
		"1,Duplicate,Plumber,,Kathmandu,4,Mon,\n" +
		"8,Short\n"

	providers, dropped, err := newReader(nil).parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, providers, 1)
	assert.Equal(t, "Ok", providers[0].Name)
	assert.Equal(t, 7, dropped)
}

func TestWrite_RoundTrip(t *testing.T) {
	providers, err := Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, providers))

	again, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, providers, again)
}

package news

import "encoding/csv"
import "io"
import "os"
import "strconv"
import "strings"

import "github.com/pkg/errors"

import "github.com/neurlang/newsclassifier/datasets"

const ColumnLabel = "Class Index"
const ColumnTitle = "Title"
const ColumnDescription = "Description"

// Names holds the AG News display names for class indexes 1 to 4.
var Names = []string{"World", "Sports", "Business", "Sci/Tech"}

// Values holds the AG News class indexes.
var Values = []int{1, 2, 3, 4}

// Options control how a CSV is read.
type Options struct {
	// Unlabeled allows the label column to be absent; every record then gets label 0.
	Unlabeled bool

	// Labels, when set, rejects records whose label is not in the set.
	Labels *datasets.Labels
}

// ReadFile reads a CSV file.
func ReadFile(name string, opt Options) ([]datasets.Record, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "open dataset")
	}
	defer file.Close()
	records, err := Read(file, opt)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", name)
	}
	return records, nil
}

// Read reads CSV rows. Columns are located by header name so their order does not
// matter and extra columns are ignored. Any malformed row fails the whole load.
func Read(r io.Reader, opt Options) ([]datasets.Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, datasets.ErrEmpty
	}
	if err != nil {
		return nil, errors.Wrap(err, "read header")
	}
	var col = map[string]int{ColumnLabel: -1, ColumnTitle: -1, ColumnDescription: -1}
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, ok := col[name]; ok {
			col[name] = i
		}
	}
	for _, name := range []string{ColumnLabel, ColumnTitle, ColumnDescription} {
		if col[name] < 0 && !(name == ColumnLabel && opt.Unlabeled) {
			return nil, errors.Wrapf(datasets.ErrMissingColumn, "%q", name)
		}
	}

	var records []datasets.Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		var rec = datasets.Record{
			Title:       row[col[ColumnTitle]],
			Description: row[col[ColumnDescription]],
		}
		if col[ColumnLabel] >= 0 {
			field := strings.TrimSpace(row[col[ColumnLabel]])
			if field == "" && opt.Unlabeled {
				records = append(records, rec)
				continue
			}
			rec.Label, err = strconv.Atoi(field)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: class index", line)
			}
			if opt.Labels != nil && !opt.Unlabeled {
				if _, ok := opt.Labels.Index(rec.Label); !ok {
					return nil, errors.Wrapf(datasets.ErrUnknownLabel, "line %d: label %d", line, rec.Label)
				}
			}
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, datasets.ErrEmpty
	}
	return records, nil
}

// Labels returns the AG News label set.
func Labels() *datasets.Labels {
	l, err := datasets.NewLabels(Values, Names)
	if err != nil {
		panic(err.Error())
	}
	return l
}

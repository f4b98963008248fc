package datasets

import "testing"

import "github.com/stretchr/testify/require"

func TestLabels(t *testing.T) {
	l, err := NewLabels([]int{1, 2, 3, 4}, []string{"World", "Sports", "Business", ""})
	require.NoError(t, err)
	require.Equal(t, 4, l.Len())

	c, ok := l.Index(3)
	require.True(t, ok)
	require.Equal(t, 2, c)
	require.Equal(t, 3, l.Value(c))
	require.Equal(t, "Business", l.Name(2))
	require.Equal(t, "Class 4", l.Name(3))

	_, ok = l.Index(9)
	require.False(t, ok)

	classes, err := l.Classes([]Record{{Label: 1}, {Label: 4}})
	require.NoError(t, err)
	require.Equal(t, []int{0, 3}, classes)

	err = l.Validate([]Record{{Label: 1}, {Label: 5}})
	require.ErrorIs(t, err, ErrUnknownLabel)
}

func TestNewLabelsErrors(t *testing.T) {
	_, err := NewLabels(nil, nil)
	require.ErrorIs(t, err, ErrEmpty)
	_, err = NewLabels([]int{1, 2}, []string{"a"})
	require.Error(t, err)
	_, err = NewLabels([]int{1, 1}, nil)
	require.Error(t, err)
}

func TestInferLabels(t *testing.T) {
	l, err := InferLabels([]Record{{Label: 3}, {Label: 1}, {Label: 3}, {Label: 2}})
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, l.Values)
}

func TestRecordText(t *testing.T) {
	r := Record{Label: 1, Title: "Stocks Rally!", Description: "Markets up 3%."}.Clean()
	require.Equal(t, "stocks rally", r.Title)
	require.Equal(t, "markets up", r.Description)
	require.Equal(t, "markets up", r.Text(FieldDescription))
	require.Equal(t, "stocks rally", r.Text(FieldTitle))
	require.Equal(t, "stocks rally markets up", r.Text(FieldBoth))
	require.Equal(t, []string{"markets up"}, Texts([]Record{r}, ""))
}

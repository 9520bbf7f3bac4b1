package service

import (
	"errors"
	"fmt"
	"slices"

	"github.com/AliSleiman0/loan-default-predictor/internal/domain/model"
)

// ErrEncodingCollision means an expanded category column would reuse the name
// of another feature column.
var ErrEncodingCollision = errors.New("categorical expansion collides with an existing column")

// LearnEncodings records, for every text column left in batch, the sorted
// set of non-empty categories it contains. It fails when an expanded name
// such as Property_Urban is already taken by a column that survives
// expansion or by another expanded category.
func LearnEncodings(batch model.FeatureBatch) ([]model.CategoricalEncoding, error) {
	text := batch.TextColumns()
	taken := make(map[string]string, len(batch.Names()))
	for _, name := range batch.Names() {
		if !slices.Contains(text, name) {
			taken[name] = name
		}
	}

	var encodings []model.CategoricalEncoding
	for _, name := range text {
		col, _ := batch.Column(name)

		seen := make(map[string]struct{})
		var cats []string
		for _, v := range col.Texts {
			if v == "" {
				continue
			}
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				cats = append(cats, v)
			}
		}
		slices.Sort(cats)

		enc := model.CategoricalEncoding{Column: name, Categories: cats}
		for _, cat := range cats {
			expanded := enc.ColumnName(cat)
			if owner, ok := taken[expanded]; ok {
				return nil, fmt.Errorf("%w: %q from column %q category %q, already produced by %q",
					ErrEncodingCollision, expanded, name, cat, owner)
			}
			taken[expanded] = name
		}
		encodings = append(encodings, enc)
	}
	return encodings, nil
}

// ExpandCategoricals replaces every encoded text column with one 0/1 column
// per recorded category. Numeric columns keep their order and the expanded
// columns follow them, in encoding order. Values outside the vocabulary
// expand to all zeros. Text columns without an encoding are left in place.
func ExpandCategoricals(batch model.FeatureBatch, encodings []model.CategoricalEncoding) (model.FeatureBatch, error) {
	if len(encodings) == 0 {
		return batch, nil
	}

	encoded := make(map[string]struct{}, len(encodings))
	for _, enc := range encodings {
		encoded[enc.Column] = struct{}{}
	}

	var cols []model.Column
	for _, c := range batch.Columns() {
		if _, ok := encoded[c.Name]; ok && c.Kind == model.KindText {
			continue
		}
		cols = append(cols, c)
	}

	for _, enc := range encodings {
		src, ok := batch.Column(enc.Column)
		if !ok || src.Kind != model.KindText {
			continue
		}
		for _, cat := range enc.Categories {
			values := make([]float64, batch.Len())
			for i, v := range src.Texts {
				if v == cat {
					values[i] = 1
				}
			}
			cols = append(cols, model.NumericColumn(enc.ColumnName(cat), values))
		}
	}

	return model.NewFeatureBatch(batch.Len(), cols...)
}

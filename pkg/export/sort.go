package export

import (
	"cmp"
	"slices"
)

func kindOrder(k string) int {
	if k == "train" {
		return 0
	}
	return 1
}

func sortRecords(rs []Record) {
	slices.SortStableFunc(rs, func(a, b Record) int {
		if c := cmp.Compare(a.Time, b.Time); c != 0 {
			return c
		}
		return cmp.Compare(kindOrder(a.Kind), kindOrder(b.Kind))
	})
}

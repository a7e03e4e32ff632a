package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDate(t *testing.T) {
	cases := map[string]string{
		"2020.01.01":          "2020.01.01",
		"2020.1.1":            "2020.01.01",
		"2020-03-07":          "2020.03.07",
		"2020/12/31":          "2020.12.31",
		"2020년1월2일 제1234호":    "2020.01.02",
		"2020년 11월 20일":       "2020.11.20",
		"접수 없음":               "",
		"2020.13.01":          "",
		"":                    "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeDate(in), in)
	}
}

func TestFindDate_Span(t *testing.T) {
	s := "2021년3월4일 제55호"
	date, start, end, ok := FindDate(s)
	assert.True(t, ok)
	assert.Equal(t, "2021.03.04", date)
	assert.Equal(t, 0, start)
	assert.Equal(t, " 제55호", s[end:])
}

func TestCompareDates_EmptySortsFirst(t *testing.T) {
	assert.True(t, DateBefore("", "1900.01.01"))
	assert.True(t, DateBefore("2019.06.01", "2020.01.01"))
	assert.False(t, DateBefore("2020.01.01", "2020.01.01"))
	assert.True(t, DateAfter("2024.01.01", "2020.01.01"))
	assert.Equal(t, 0, CompareDates("", ""))
}

//Personal.AI order the ending

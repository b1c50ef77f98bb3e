package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/insightlane/sales-engine/pkg/models"
)

func TestConditionBuilderEmpty(t *testing.T) {
	b := &conditionBuilder{}

	assert.Equal(t, "", b.whereClause())
	assert.Empty(t, b.args)
}

func TestConditionBuilderDateRange(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	b := &conditionBuilder{}
	b.addDateRange(models.DateRange{Start: start, End: end})

	assert.Equal(t, " WHERE date >= $1 AND date <= $2", b.whereClause())
	assert.Equal(t, []interface{}{start, end}, b.args)
}

func TestConditionBuilderOpenEndedRange(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	b := &conditionBuilder{}
	b.addDateRange(models.DateRange{Start: start})

	assert.Equal(t, " WHERE date >= $1", b.whereClause())
	assert.Equal(t, []interface{}{start}, b.args)
}

func TestConditionBuilderSubstring(t *testing.T) {
	b := &conditionBuilder{}
	b.addSubstring("product_name", "widget")
	b.addSubstring("region", "north")

	assert.Equal(t,
		" WHERE LOWER(product_name) LIKE LOWER($1) AND LOWER(region) LIKE LOWER($2)",
		b.whereClause())
	assert.Equal(t, []interface{}{"%widget%", "%north%"}, b.args)
}

func TestConditionBuilderPlaceholdersStayPositional(t *testing.T) {
	b := &conditionBuilder{}
	b.addDateRange(models.DateRange{Start: time.Now()})
	b.addSubstring("category", "audio")

	where := b.whereClause()
	limit := b.nextPlaceholder(100)
	offset := b.nextPlaceholder(0)

	assert.Equal(t, "$3", limit)
	assert.Equal(t, "$4", offset)
	assert.Contains(t, where, "$1")
	assert.Contains(t, where, "$2")
	assert.Len(t, b.args, 4)
}

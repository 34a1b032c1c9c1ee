package scoring

import (
	"testing"

	"evalboard/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestBuildScoreSheetSubtotals(t *testing.T) {
	categories := []domain.Category{
		{CategoryID: "cat2", Name: "사업계획", SortOrder: 2, IsActive: true},
		{CategoryID: "cat1", Name: "기관수행능력", SortOrder: 1, IsActive: true},
	}
	items := []domain.Item{
		{ItemID: "i1", CategoryID: "cat1", Name: "수행 실적", MaxScore: 20, SortOrder: 1, IsActive: true},
		{ItemID: "i2", CategoryID: "cat1", Name: "전문 인력", MaxScore: 5, SortOrder: 2, IsActive: true},
		{ItemID: "i3", CategoryID: "cat1", Name: "운영 체계", MaxScore: 5, SortOrder: 3, IsActive: true},
		{ItemID: "i4", CategoryID: "cat1", Name: "재정 건전성", MaxScore: 5, SortOrder: 4, IsActive: true},
		{ItemID: "i5", CategoryID: "cat2", Name: "목표 타당성", MaxScore: 5, SortOrder: 1, IsActive: true},
		{ItemID: "i6", CategoryID: "cat2", Name: "추진 전략", MaxScore: 5, SortOrder: 2, IsActive: true},
		{ItemID: "i7", CategoryID: "cat2", Name: "기대 효과", MaxScore: 10, SortOrder: 3, IsActive: true},
	}

	sheet := BuildScoreSheet(categories, items)

	require.Len(t, sheet.Sections, 2)
	// Sections are lettered in category sort order, not input order.
	require.Equal(t, "A", sheet.Sections[0].Label)
	require.Equal(t, "기관수행능력", sheet.Sections[0].CategoryName)
	require.Equal(t, 35, sheet.Sections[0].Subtotal)
	require.Equal(t, "B", sheet.Sections[1].Label)
	require.Equal(t, 20, sheet.Sections[1].Subtotal)
	require.Equal(t, 55, sheet.GrandTotal)
}

func TestBuildScoreSheetExcludesInactive(t *testing.T) {
	categories := []domain.Category{
		{CategoryID: "cat1", Name: "기관수행능력", SortOrder: 1, IsActive: true},
		{CategoryID: "cat2", Name: "사용 안함", SortOrder: 2, IsActive: false},
	}
	items := []domain.Item{
		{ItemID: "i1", CategoryID: "cat1", Name: "수행 실적", MaxScore: 20, IsActive: true},
		{ItemID: "i2", CategoryID: "cat1", Name: "비활성 항목", MaxScore: 30, IsActive: false},
		{ItemID: "i3", CategoryID: "cat2", Name: "비활성 구분 항목", MaxScore: 10, IsActive: true},
	}

	sheet := BuildScoreSheet(categories, items)

	require.Len(t, sheet.Sections, 1)
	require.Len(t, sheet.Sections[0].Items, 1)
	require.Equal(t, 20, sheet.GrandTotal)
}

func TestBuildScoreSheetDeterministic(t *testing.T) {
	categories := []domain.Category{
		{CategoryID: "cat1", Name: "가", SortOrder: 1, IsActive: true},
		{CategoryID: "cat2", Name: "나", SortOrder: 1, IsActive: true},
	}
	items := []domain.Item{
		{ItemID: "i1", CategoryID: "cat1", Name: "b", MaxScore: 5, SortOrder: 1, IsActive: true},
		{ItemID: "i2", CategoryID: "cat1", Name: "a", MaxScore: 5, SortOrder: 1, IsActive: true},
	}

	first := BuildScoreSheet(categories, items)
	second := BuildScoreSheet(categories, items)
	require.Equal(t, first, second)
	// Equal sort orders fall back to name, so "a" precedes "b".
	require.Equal(t, "a", first.Sections[0].Items[0].Name)
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"testing"

	"evalboard/internal/domain"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCategoriesRepo struct {
	seq        int
	categories map[string]*domain.Category
}

func newFakeCategoriesRepo() *fakeCategoriesRepo {
	return &fakeCategoriesRepo{categories: map[string]*domain.Category{}}
}

func (f *fakeCategoriesRepo) GetCategory(_ context.Context, categoryID string) (*domain.Category, error) {
	c, ok := f.categories[categoryID]
	if !ok {
		return nil, fmt.Errorf("category not found")
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCategoriesRepo) ListCategories(_ context.Context, activeOnly bool) ([]*domain.Category, error) {
	out := []*domain.Category{}
	for _, c := range f.categories {
		if activeOnly && !c.IsActive {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (f *fakeCategoriesRepo) CreateCategory(_ context.Context, c *domain.Category) (string, error) {
	f.seq++
	id := fmt.Sprintf("cat-%d", f.seq)
	cp := *c
	cp.CategoryID = id
	f.categories[id] = &cp
	return id, nil
}

func (f *fakeCategoriesRepo) UpdateCategory(_ context.Context, c *domain.Category) error {
	if _, ok := f.categories[c.CategoryID]; !ok {
		return fmt.Errorf("category not found")
	}
	cp := *c
	f.categories[c.CategoryID] = &cp
	return nil
}

func (f *fakeCategoriesRepo) DeleteCategory(_ context.Context, categoryID string) error {
	delete(f.categories, categoryID)
	return nil
}

type fakeItemsRepo struct {
	seq   int
	items map[string]*domain.Item
}

func newFakeItemsRepo() *fakeItemsRepo {
	return &fakeItemsRepo{items: map[string]*domain.Item{}}
}

func (f *fakeItemsRepo) GetItem(_ context.Context, itemID string) (*domain.Item, error) {
	it, ok := f.items[itemID]
	if !ok {
		return nil, fmt.Errorf("item not found")
	}
	cp := *it
	return &cp, nil
}

func (f *fakeItemsRepo) ListItems(_ context.Context, activeOnly bool) ([]*domain.Item, error) {
	out := []*domain.Item{}
	for _, it := range f.items {
		if activeOnly && !it.IsActive {
			continue
		}
		cp := *it
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (f *fakeItemsRepo) ListItemsByCategory(_ context.Context, categoryID string) ([]*domain.Item, error) {
	out := []*domain.Item{}
	for _, it := range f.items {
		if it.CategoryID != categoryID {
			continue
		}
		cp := *it
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (f *fakeItemsRepo) CreateItem(_ context.Context, it *domain.Item) (string, error) {
	f.seq++
	id := fmt.Sprintf("item-%d", f.seq)
	cp := *it
	cp.ItemID = id
	f.items[id] = &cp
	return id, nil
}

func (f *fakeItemsRepo) UpdateItem(_ context.Context, it *domain.Item) error {
	if _, ok := f.items[it.ItemID]; !ok {
		return fmt.Errorf("item not found")
	}
	cp := *it
	f.items[it.ItemID] = &cp
	return nil
}

func (f *fakeItemsRepo) DeleteItem(_ context.Context, itemID string) error {
	delete(f.items, itemID)
	return nil
}

func (f *fakeItemsRepo) DeleteByCategory(_ context.Context, categoryID string) (int, error) {
	n := 0
	for id, it := range f.items {
		if it.CategoryID == categoryID {
			delete(f.items, id)
			n++
		}
	}
	return n, nil
}

func seedLayout(t *testing.T, categories *fakeCategoriesRepo, items *fakeItemsRepo) {
	t.Helper()
	ctx := context.Background()

	catA, err := categories.CreateCategory(ctx, &domain.Category{Name: "기관수행능력", SortOrder: 1, IsActive: true})
	require.NoError(t, err)
	catB, err := categories.CreateCategory(ctx, &domain.Category{Name: "사업계획", SortOrder: 2, IsActive: true})
	require.NoError(t, err)

	_, err = items.CreateItem(ctx, &domain.Item{CategoryID: catA, Name: "수행 실적", MaxScore: 20, Weight: 1, SortOrder: 1, IsActive: true})
	require.NoError(t, err)
	_, err = items.CreateItem(ctx, &domain.Item{CategoryID: catA, Name: "전문 인력", MaxScore: 10, Weight: 1, SortOrder: 2, IsActive: true, HasPreset: true})
	require.NoError(t, err)
	_, err = items.CreateItem(ctx, &domain.Item{CategoryID: catB, Name: "사업 타당성", MaxScore: 15, Weight: 1, SortOrder: 1, IsActive: true, IsQuantitative: true})
	require.NoError(t, err)
}

func TestTemplateRoundTrip(t *testing.T) {
	ctx := context.Background()
	categories := newFakeCategoriesRepo()
	items := newFakeItemsRepo()
	seedLayout(t, categories, items)

	svc := NewTemplateService(categories, items, nil, zap.NewNop())

	exported, err := svc.ExportJSON(ctx)
	require.NoError(t, err)

	var doc TemplateDoc
	require.NoError(t, json.Unmarshal(exported, &doc))
	require.Equal(t, 1, doc.Version)
	require.Len(t, doc.Sections, 2)
	require.Equal(t, "기관수행능력", doc.Sections[0].CategoryName)
	require.Len(t, doc.Sections[0].Items, 2)

	// Import into a clean layout and export again: same document.
	freshCategories := newFakeCategoriesRepo()
	freshItems := newFakeItemsRepo()
	fresh := NewTemplateService(freshCategories, freshItems, nil, zap.NewNop())

	sheet, err := fresh.ImportJSON(ctx, exported)
	require.NoError(t, err)
	require.Len(t, sheet.Sections, 2)
	require.Equal(t, 45, sheet.GrandTotal)

	reExported, err := fresh.ExportJSON(ctx)
	require.NoError(t, err)
	require.JSONEq(t, string(exported), string(reExported))
}

func TestTemplateImportReplacesLayout(t *testing.T) {
	ctx := context.Background()
	categories := newFakeCategoriesRepo()
	items := newFakeItemsRepo()
	seedLayout(t, categories, items)

	svc := NewTemplateService(categories, items, nil, zap.NewNop())

	doc := TemplateDoc{
		Version: 1,
		Sections: []TemplateSection{
			{
				CategoryName: "새 평가영역",
				SortOrder:    1,
				Items: []TemplateItem{
					{Name: "새 항목", MaxScore: 30, SortOrder: 1},
				},
			},
		},
	}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	sheet, err := svc.ImportJSON(ctx, raw)
	require.NoError(t, err)
	require.Len(t, sheet.Sections, 1)
	require.Equal(t, 30, sheet.GrandTotal)

	remaining, err := categories.ListCategories(ctx, false)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.Equal(t, "새 평가영역", remaining[0].Name)

	// Omitted weight defaults to 1.
	allItems, err := items.ListItems(ctx, false)
	require.NoError(t, err)
	require.Len(t, allItems, 1)
	require.Equal(t, 1.0, allItems[0].Weight)
}

func TestTemplateImportRejectsInvalidDocuments(t *testing.T) {
	ctx := context.Background()
	svc := NewTemplateService(newFakeCategoriesRepo(), newFakeItemsRepo(), nil, zap.NewNop())

	cases := []struct {
		name string
		doc  string
	}{
		{"not json", `{"version":`},
		{"no sections", `{"version":1,"sections":[]}`},
		{"unnamed section", `{"version":1,"sections":[{"category_name":"","items":[]}]}`},
		{"zero max score", `{"version":1,"sections":[{"category_name":"영역","items":[{"name":"항목","max_score":0}]}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ImportJSON(ctx, []byte(tc.doc))
			require.Error(t, err)
		})
	}
}

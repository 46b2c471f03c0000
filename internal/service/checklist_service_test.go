package service

import (
	"strings"
	"testing"

	"streamcrew_backend/internal/model"
	"streamcrew_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func uintPtr(u uint) *uint    { return &u }
func intPtr(i int) *int       { return &i }

func TestChecklistService_CreateFull(t *testing.T) {
	db := newTestDB(t)
	svc := newChecklistService(db)

	camera := seedRole(t, db, "CAMERA")
	audio := seedRole(t, db, "AUDIO")

	req := CreateChecklistRequest{
		Name:          "Pre-Stream Setup",
		Phase:         "pre-stream",
		ChecklistType: &ChecklistTypeRef{Name: strPtr("Live Event")},
		RoleIDs:       []uint{camera.ID, audio.ID},
		Sections: []SectionRequest{
			{
				Name: "Video",
				Items: []ListItemRequest{
					{Name: "Mount cameras"},
					{Name: "White balance"},
				},
			},
			{
				Name: "Audio",
				Items: []ListItemRequest{
					{Name: "Soundcheck"},
				},
			},
		},
	}

	created, err := svc.CreateFull(1, req, "127.0.0.1")
	require.NoError(t, err)

	assert.Equal(t, "Pre-Stream Setup", created.Name)
	assert.Equal(t, model.PhasePreStream, created.Phase)
	require.NotNil(t, created.ChecklistTypeID)
	assert.Len(t, created.Roles, 2)

	require.Len(t, created.Sections, 2)
	assert.Equal(t, 10, created.Sections[0].Order)
	assert.Equal(t, 20, created.Sections[1].Order)
	assert.Len(t, created.Sections[0].Items, 2)
	assert.Len(t, created.Sections[1].Items, 1)

	// 按名称引用的类型被顺手创建
	var typeCount int64
	db.Model(&model.ChecklistType{}).Count(&typeCount)
	assert.EqualValues(t, 1, typeCount)
}

func TestChecklistService_CreateFull_TypeByNameIsReused(t *testing.T) {
	db := newTestDB(t)
	svc := newChecklistService(db)

	first, err := svc.CreateFull(1, CreateChecklistRequest{
		Name:          "Setup A",
		ChecklistType: &ChecklistTypeRef{Name: strPtr("Studio Show")},
	}, "")
	require.NoError(t, err)

	// 大小写不同也命中同一类型
	second, err := svc.CreateFull(1, CreateChecklistRequest{
		Name:          "Setup B",
		ChecklistType: &ChecklistTypeRef{Name: strPtr("studio show")},
	}, "")
	require.NoError(t, err)

	assert.Equal(t, *first.ChecklistTypeID, *second.ChecklistTypeID)

	var typeCount int64
	db.Model(&model.ChecklistType{}).Count(&typeCount)
	assert.EqualValues(t, 1, typeCount)
}

func TestChecklistService_CreateFull_UnknownTypeID(t *testing.T) {
	db := newTestDB(t)
	svc := newChecklistService(db)

	_, err := svc.CreateFull(1, CreateChecklistRequest{
		Name:          "Setup",
		ChecklistType: &ChecklistTypeRef{ID: uintPtr(999)},
	}, "")

	var fields util.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "checklistType")
}

func TestChecklistService_CreateFull_MissingRolesRollsBack(t *testing.T) {
	db := newTestDB(t)
	svc := newChecklistService(db)

	camera := seedRole(t, db, "CAMERA")

	_, err := svc.CreateFull(1, CreateChecklistRequest{
		Name:    "Setup",
		RoleIDs: []uint{camera.ID, 42, 43},
		Sections: []SectionRequest{
			{Name: "Video", Items: []ListItemRequest{{Name: "Mount cameras"}}},
		},
	}, "")

	var fields util.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Equal(t, "Roles not found: [42, 43]", fields["roles"])

	// 事务回滚，不留半成品
	var count int64
	db.Model(&model.Checklist{}).Count(&count)
	assert.EqualValues(t, 0, count)
	db.Model(&model.Section{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestChecklistService_CreateFull_DuplicateNamePerType(t *testing.T) {
	db := newTestDB(t)
	svc := newChecklistService(db)

	_, err := svc.CreateFull(1, CreateChecklistRequest{
		Name:          "Setup",
		ChecklistType: &ChecklistTypeRef{Name: strPtr("Live Event")},
	}, "")
	require.NoError(t, err)

	_, err = svc.CreateFull(1, CreateChecklistRequest{
		Name:          "setup",
		ChecklistType: &ChecklistTypeRef{Name: strPtr("Live Event")},
	}, "")
	assert.ErrorIs(t, err, util.ErrConflict)

	// 同名但类型不同可以共存
	_, err = svc.CreateFull(1, CreateChecklistRequest{
		Name:          "Setup",
		ChecklistType: &ChecklistTypeRef{Name: strPtr("Studio Show")},
	}, "")
	assert.NoError(t, err)
}

func TestChecklistService_CreateFull_InvalidPhase(t *testing.T) {
	db := newTestDB(t)
	svc := newChecklistService(db)

	_, err := svc.CreateFull(1, CreateChecklistRequest{Name: "Setup", Phase: "mid-stream"}, "")

	var fields util.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "phase")
}

func TestChecklistService_CreateFull_SectionFieldValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newChecklistService(db)

	var fields util.FieldErrors

	// 非正数排序
	_, err := svc.CreateFull(1, CreateChecklistRequest{
		Name:     "Setup",
		Sections: []SectionRequest{{Name: "Video", Order: intPtr(-5)}},
	}, "")
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "sections[0].order")

	// 超长描述
	long := strings.Repeat("x", 2500)
	_, err = svc.CreateFull(1, CreateChecklistRequest{
		Name:     "Setup",
		Sections: []SectionRequest{{Name: "Video", Description: long}},
	}, "")
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "sections[0].description")

	_, err = svc.CreateFull(1, CreateChecklistRequest{
		Name: "Setup",
		Sections: []SectionRequest{
			{Name: "Video", Items: []ListItemRequest{{Name: "Mount cameras", Description: long}}},
		},
	}, "")
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "sections[0].items[0].description")

	_, err = svc.CreateFull(1, CreateChecklistRequest{Name: "Setup", Description: long}, "")
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "description")

	// 校验失败不落库
	var count int64
	db.Model(&model.Checklist{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestChecklistService_UpdateFull_FieldValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newChecklistService(db)

	created, err := svc.CreateFull(1, CreateChecklistRequest{
		Name:     "Setup",
		Sections: []SectionRequest{{Name: "Video", Items: []ListItemRequest{{Name: "Mount cameras"}}}},
	}, "")
	require.NoError(t, err)

	long := strings.Repeat("x", 2500)
	var fields util.FieldErrors

	_, err = svc.UpdateFull(1, created.ID, UpdateChecklistRequest{Description: &long}, "")
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "description")

	_, err = svc.UpdateFull(1, created.ID, UpdateChecklistRequest{
		Sections: &[]SectionRequest{{Name: "Video", Order: intPtr(0)}},
	}, "")
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "sections[0].order")

	// 回滚后原有分区仍在
	got, err := svc.Get(created.ID)
	require.NoError(t, err)
	require.Len(t, got.Sections, 1)
	assert.Len(t, got.Sections[0].Items, 1)
}

func TestChecklistService_UpdateFull_PartialKeepsSections(t *testing.T) {
	db := newTestDB(t)
	svc := newChecklistService(db)

	created, err := svc.CreateFull(1, CreateChecklistRequest{
		Name: "Setup",
		Sections: []SectionRequest{
			{Name: "Video", Items: []ListItemRequest{{Name: "Mount cameras"}}},
		},
	}, "")
	require.NoError(t, err)

	updated, err := svc.UpdateFull(1, created.ID, UpdateChecklistRequest{
		Name:  strPtr("Renamed Setup"),
		Notes: strPtr("updated"),
	}, "")
	require.NoError(t, err)

	assert.Equal(t, "Renamed Setup", updated.Name)
	require.Len(t, updated.Sections, 1)
	assert.Len(t, updated.Sections[0].Items, 1)
}

func TestChecklistService_UpdateFull_ReplacesSections(t *testing.T) {
	db := newTestDB(t)
	svc := newChecklistService(db)

	created, err := svc.CreateFull(1, CreateChecklistRequest{
		Name: "Setup",
		Sections: []SectionRequest{
			{Name: "Video", Items: []ListItemRequest{{Name: "Mount cameras"}, {Name: "White balance"}}},
			{Name: "Audio", Items: []ListItemRequest{{Name: "Soundcheck"}}},
		},
	}, "")
	require.NoError(t, err)

	newSections := []SectionRequest{
		{Name: "Video", Items: []ListItemRequest{{Name: "Focus check"}}},
	}
	updated, err := svc.UpdateFull(1, created.ID, UpdateChecklistRequest{Sections: &newSections}, "")
	require.NoError(t, err)

	require.Len(t, updated.Sections, 1)
	require.Len(t, updated.Sections[0].Items, 1)
	assert.Equal(t, "Focus check", updated.Sections[0].Items[0].Name)

	// 旧条目被物理删除，不占唯一键
	var itemCount int64
	db.Unscoped().Model(&model.ListItem{}).Count(&itemCount)
	assert.EqualValues(t, 1, itemCount)
}

func TestChecklistService_UpdateFull_EmptySectionsClears(t *testing.T) {
	db := newTestDB(t)
	svc := newChecklistService(db)

	created, err := svc.CreateFull(1, CreateChecklistRequest{
		Name: "Setup",
		Sections: []SectionRequest{
			{Name: "Video", Items: []ListItemRequest{{Name: "Mount cameras"}}},
		},
	}, "")
	require.NoError(t, err)

	empty := []SectionRequest{}
	updated, err := svc.UpdateFull(1, created.ID, UpdateChecklistRequest{Sections: &empty}, "")
	require.NoError(t, err)
	assert.Empty(t, updated.Sections)
}

func TestChecklistService_ReorderSections(t *testing.T) {
	db := newTestDB(t)
	svc := newChecklistService(db)

	created, err := svc.CreateFull(1, CreateChecklistRequest{
		Name: "Setup",
		Sections: []SectionRequest{
			{Name: "First"},
			{Name: "Second"},
			{Name: "Third"},
		},
	}, "")
	require.NoError(t, err)
	require.Len(t, created.Sections, 3)

	reversed := []uint{created.Sections[2].ID, created.Sections[1].ID, created.Sections[0].ID}
	require.NoError(t, svc.ReorderSections(1, created.ID, reversed, ""))

	reloaded, err := svc.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Third", reloaded.Sections[0].Name)
	assert.Equal(t, "First", reloaded.Sections[2].Name)
}

func TestChecklistService_ReorderSections_ForeignSection(t *testing.T) {
	db := newTestDB(t)
	svc := newChecklistService(db)

	first, err := svc.CreateFull(1, CreateChecklistRequest{
		Name:     "Setup A",
		Sections: []SectionRequest{{Name: "Video"}},
	}, "")
	require.NoError(t, err)

	second, err := svc.CreateFull(1, CreateChecklistRequest{
		Name:     "Setup B",
		Sections: []SectionRequest{{Name: "Video"}},
	}, "")
	require.NoError(t, err)

	err = svc.ReorderSections(1, first.ID, []uint{second.Sections[0].ID}, "")
	var fields util.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "sections")
}

func TestChecklistService_Stats(t *testing.T) {
	db := newTestDB(t)
	svc := newChecklistService(db)

	created, err := svc.CreateFull(1, CreateChecklistRequest{
		Name: "Setup",
		Sections: []SectionRequest{
			{Name: "Video", Items: []ListItemRequest{{Name: "Mount cameras"}, {Name: "White balance"}}},
			{Name: "Audio", Items: []ListItemRequest{{Name: "Soundcheck"}}},
		},
	}, "")
	require.NoError(t, err)

	stats, err := svc.Stats(created.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Sections)
	assert.EqualValues(t, 3, stats.Items)
	assert.Empty(t, stats.Statuses)
}

func TestChecklistService_Delete(t *testing.T) {
	db := newTestDB(t)
	svc := newChecklistService(db)

	created, err := svc.CreateFull(1, CreateChecklistRequest{
		Name:     "Setup",
		Sections: []SectionRequest{{Name: "Video", Items: []ListItemRequest{{Name: "Mount cameras"}}}},
	}, "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(1, created.ID, ""))

	_, err = svc.Get(created.ID)
	assert.Error(t, err)
}

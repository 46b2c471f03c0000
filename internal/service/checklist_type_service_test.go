package service

import (
	"errors"
	"testing"

	"streamcrew_backend/internal/model"
	"streamcrew_backend/internal/repository"
	"streamcrew_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newChecklistTypeService(db *gorm.DB) *ChecklistTypeService {
	return NewChecklistTypeService(repository.NewChecklistTypeRepository(db), newAuditService(db))
}

func TestChecklistTypeService_CreateTrimsAndRejectsDuplicate(t *testing.T) {
	db := newTestDB(t)
	svc := newChecklistTypeService(db)

	created, err := svc.Create(1, ChecklistTypeRequest{Name: "  Esports Final  ", Description: "电竞决赛"}, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "Esports Final", created.Name)

	_, err = svc.Create(1, ChecklistTypeRequest{Name: "Esports Final"}, "127.0.0.1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrConflict))
}

func TestChecklistTypeService_UpdateRenameConflict(t *testing.T) {
	db := newTestDB(t)
	svc := newChecklistTypeService(db)

	a, err := svc.Create(1, ChecklistTypeRequest{Name: "Town Hall"}, "127.0.0.1")
	require.NoError(t, err)
	b, err := svc.Create(1, ChecklistTypeRequest{Name: "Webinar"}, "127.0.0.1")
	require.NoError(t, err)

	// 改回自己的名字不算冲突
	same, err := svc.Update(1, a.ID, ChecklistTypeRequest{Name: "Town Hall", Description: "全员大会"}, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "全员大会", same.Description)

	_, err = svc.Update(1, b.ID, ChecklistTypeRequest{Name: "Town Hall"}, "127.0.0.1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrConflict))
}

func TestChecklistTypeService_DeleteBlockedWhenReferenced(t *testing.T) {
	db := newTestDB(t)
	svc := newChecklistTypeService(db)

	typ, err := svc.Create(1, ChecklistTypeRequest{Name: "Concert"}, "127.0.0.1")
	require.NoError(t, err)
	checklist := &model.Checklist{
		Name:            "Stage checklist",
		ChecklistTypeID: &typ.ID,
		Phase:           model.PhasePreStream,
		Sections: []model.Section{
			{Name: "Rigging", Order: 10, Items: []model.ListItem{{Name: "Truss check"}, {Name: "Safety cables"}}},
		},
	}
	require.NoError(t, db.Create(checklist).Error)

	err = svc.Delete(1, typ.ID, "127.0.0.1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrConflict))

	stats, err := svc.Stats(typ.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Checklists)
	assert.Equal(t, int64(1), stats.Sections)
	assert.Equal(t, int64(2), stats.Items)

	require.NoError(t, db.Unscoped().Delete(&model.Checklist{}, "checklist_type_id = ?", typ.ID).Error)
	require.NoError(t, svc.Delete(1, typ.ID, "127.0.0.1"))
}

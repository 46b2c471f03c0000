package service

import (
	"testing"

	"streamcrew_backend/internal/model"
	"streamcrew_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func crewClaims(user *model.User) util.Claims {
	return util.Claims{UserID: user.ID, Role: user.Role, Email: user.Email}
}

// seedAssignedChecklist 两个分区共 3 个条目，并把检查单分配给 user
func seedAssignedChecklist(t *testing.T, db *gorm.DB, svc *AssignmentService, user *model.User) (*model.Checklist, *model.CrewMemberChecklist) {
	t.Helper()

	clSvc := newChecklistService(db)
	checklist, err := clSvc.CreateFull(user.ID, CreateChecklistRequest{
		Name: "Show Night",
		Sections: []SectionRequest{
			{Name: "Video", Items: []ListItemRequest{{Name: "Mount cameras"}, {Name: "White balance"}}},
			{Name: "Audio", Items: []ListItemRequest{{Name: "Soundcheck"}}},
		},
	}, "")
	require.NoError(t, err)

	assignment, err := svc.Assign(0, AssignChecklistRequest{
		UserID:      user.ID,
		ChecklistID: checklist.ID,
		Stream:      "friday-night",
	}, "")
	require.NoError(t, err)

	return checklist, assignment
}

func itemIDs(checklist *model.Checklist) []uint {
	var ids []uint
	for _, s := range checklist.Sections {
		for _, it := range s.Items {
			ids = append(ids, it.ID)
		}
	}
	return ids
}

func TestAssignmentService_Assign_Idempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newAssignmentService(db)

	user := seedUser(t, db, "alice", model.Crew)
	checklist, assignment := seedAssignedChecklist(t, db, svc, user)

	again, err := svc.Assign(0, AssignChecklistRequest{
		UserID:      user.ID,
		ChecklistID: checklist.ID,
		Stream:      "friday-night",
	}, "")
	require.NoError(t, err)
	assert.Equal(t, assignment.ID, again.ID)

	// 不同场次是新的分配
	other, err := svc.Assign(0, AssignChecklistRequest{
		UserID:      user.ID,
		ChecklistID: checklist.ID,
		Stream:      "saturday-night",
	}, "")
	require.NoError(t, err)
	assert.NotEqual(t, assignment.ID, other.ID)
}

func TestAssignmentService_Assign_UnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := newAssignmentService(db)

	user := seedUser(t, db, "alice", model.Crew)
	checklist, _ := seedAssignedChecklist(t, db, svc, user)

	_, err := svc.Assign(0, AssignChecklistRequest{
		UserID:      999,
		ChecklistID: checklist.ID,
		Stream:      "friday-night",
	}, "")

	var fields util.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "userId")
}

func TestAssignmentService_CompleteItem_Toggle(t *testing.T) {
	db := newTestDB(t)
	svc := newAssignmentService(db)

	user := seedUser(t, db, "alice", model.Crew)
	checklist, assignment := seedAssignedChecklist(t, db, svc, user)
	claims := crewClaims(user)
	itemID := itemIDs(checklist)[0]

	progress, err := svc.CompleteItem(claims, assignment.ID, CompleteItemRequest{ItemID: itemID, Completed: true}, "")
	require.NoError(t, err)
	assert.True(t, progress.Completed)
	require.NotNil(t, progress.CompletedAt)
	firstStamp := *progress.CompletedAt

	// 取消勾选保留首次完成时间
	progress, err = svc.CompleteItem(claims, assignment.ID, CompleteItemRequest{ItemID: itemID, Completed: false}, "")
	require.NoError(t, err)
	assert.False(t, progress.Completed)
	require.NotNil(t, progress.CompletedAt)
	assert.Equal(t, firstStamp.Unix(), progress.CompletedAt.Unix())

	// 重新勾选不覆盖时间戳
	progress, err = svc.CompleteItem(claims, assignment.ID, CompleteItemRequest{ItemID: itemID, Completed: true}, "")
	require.NoError(t, err)
	assert.True(t, progress.Completed)
	require.NotNil(t, progress.CompletedAt)
	assert.Equal(t, firstStamp.Unix(), progress.CompletedAt.Unix())
}

func TestAssignmentService_CompleteItem_WrongItem(t *testing.T) {
	db := newTestDB(t)
	svc := newAssignmentService(db)

	user := seedUser(t, db, "alice", model.Crew)
	_, assignment := seedAssignedChecklist(t, db, svc, user)

	_, err := svc.CompleteItem(crewClaims(user), assignment.ID, CompleteItemRequest{ItemID: 999, Completed: true}, "")

	var fields util.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "itemId")
}

func TestAssignmentService_CompleteItem_Permissions(t *testing.T) {
	db := newTestDB(t)
	svc := newAssignmentService(db)

	user := seedUser(t, db, "alice", model.Crew)
	checklist, assignment := seedAssignedChecklist(t, db, svc, user)
	itemID := itemIDs(checklist)[0]

	// 其他组员不能替人勾选
	other := seedUser(t, db, "bob", model.Crew)
	_, err := svc.CompleteItem(crewClaims(other), assignment.ID, CompleteItemRequest{ItemID: itemID, Completed: true}, "")
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	// 讲师可以
	instructor := seedUser(t, db, "carol", model.Instructor)
	_, err = svc.CompleteItem(crewClaims(instructor), assignment.ID, CompleteItemRequest{ItemID: itemID, Completed: true}, "")
	assert.NoError(t, err)
}

func TestAssignmentService_Progress(t *testing.T) {
	db := newTestDB(t)
	svc := newAssignmentService(db)

	user := seedUser(t, db, "alice", model.Crew)
	checklist, assignment := seedAssignedChecklist(t, db, svc, user)
	claims := crewClaims(user)
	ids := itemIDs(checklist)

	progress, err := svc.Progress(claims, assignment.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, progress.TotalItems)
	assert.EqualValues(t, 0, progress.CompletedItems)
	assert.EqualValues(t, 0, progress.Percent)

	_, err = svc.CompleteItem(claims, assignment.ID, CompleteItemRequest{ItemID: ids[0], Completed: true}, "")
	require.NoError(t, err)

	progress, err = svc.Progress(claims, assignment.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, progress.CompletedItems)
	assert.InDelta(t, 33.33, progress.Percent, 0.01)

	for _, id := range ids[1:] {
		_, err = svc.CompleteItem(claims, assignment.ID, CompleteItemRequest{ItemID: id, Completed: true}, "")
		require.NoError(t, err)
	}

	progress, err = svc.Progress(claims, assignment.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 100, progress.Percent)
}

func TestAssignmentService_UpdateStatus_Transitions(t *testing.T) {
	db := newTestDB(t)
	svc := newAssignmentService(db)

	user := seedUser(t, db, "alice", model.Crew)
	checklist, _ := seedAssignedChecklist(t, db, svc, user)
	claims := crewClaims(user)
	itemID := itemIDs(checklist)[0]

	// pending → completed 不允许跳步
	_, err := svc.UpdateStatus(claims, UpdateStatusRequest{
		ChecklistID: checklist.ID, ItemID: itemID, Status: "completed",
	}, "")
	var fields util.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields["status"], "cannot transition")

	// pending → in_progress → blocked → in_progress → completed
	for _, status := range []string{"in_progress", "blocked", "in_progress", "completed"} {
		progress, err := svc.UpdateStatus(claims, UpdateStatusRequest{
			ChecklistID: checklist.ID, ItemID: itemID, Status: status,
		}, "")
		require.NoError(t, err)
		assert.Equal(t, model.ProgressStatus(status), progress.Status)
	}

	// completed 是终态
	_, err = svc.UpdateStatus(claims, UpdateStatusRequest{
		ChecklistID: checklist.ID, ItemID: itemID, Status: "in_progress",
	}, "")
	require.ErrorAs(t, err, &fields)

	// 终态重复设置同一状态是空操作
	progress, err := svc.UpdateStatus(claims, UpdateStatusRequest{
		ChecklistID: checklist.ID, ItemID: itemID, Status: "completed",
	}, "")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, progress.Status)
	require.NotNil(t, progress.CompletedAt)
}

func TestAssignmentService_UpdateStatus_InvalidStatus(t *testing.T) {
	db := newTestDB(t)
	svc := newAssignmentService(db)

	user := seedUser(t, db, "alice", model.Crew)
	checklist, _ := seedAssignedChecklist(t, db, svc, user)

	_, err := svc.UpdateStatus(crewClaims(user), UpdateStatusRequest{
		ChecklistID: checklist.ID, ItemID: itemIDs(checklist)[0], Status: "paused",
	}, "")

	var fields util.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "status")
}

func TestAssignmentService_UpdateStatus_Permissions(t *testing.T) {
	db := newTestDB(t)
	svc := newAssignmentService(db)

	user := seedUser(t, db, "alice", model.Crew)
	checklist, _ := seedAssignedChecklist(t, db, svc, user)
	itemID := itemIDs(checklist)[0]

	// 组员不能替别人流转状态
	other := seedUser(t, db, "bob", model.Crew)
	_, err := svc.UpdateStatus(crewClaims(other), UpdateStatusRequest{
		ChecklistID: checklist.ID, ItemID: itemID, UserID: user.ID, Status: "in_progress",
	}, "")
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	// 讲师可以
	instructor := seedUser(t, db, "carol", model.Instructor)
	progress, err := svc.UpdateStatus(crewClaims(instructor), UpdateStatusRequest{
		ChecklistID: checklist.ID, ItemID: itemID, UserID: user.ID, Status: "in_progress",
	}, "")
	require.NoError(t, err)
	assert.Equal(t, user.ID, progress.UserID)
}

func TestAssignmentService_BulkUpdateStatus_RollsBackOnInvalid(t *testing.T) {
	db := newTestDB(t)
	svc := newAssignmentService(db)

	user := seedUser(t, db, "alice", model.Crew)
	instructor := seedUser(t, db, "carol", model.Instructor)
	checklist, _ := seedAssignedChecklist(t, db, svc, user)
	ids := itemIDs(checklist)

	// 先把第一个条目推进到 completed，使它对 in_progress 流转非法
	staff := crewClaims(instructor)
	for _, status := range []string{"in_progress", "completed"} {
		_, err := svc.UpdateStatus(staff, UpdateStatusRequest{
			ChecklistID: checklist.ID, ItemID: ids[0], UserID: user.ID, Status: status,
		}, "")
		require.NoError(t, err)
	}

	_, err := svc.BulkUpdateStatus(staff, BulkStatusRequest{
		ChecklistID: checklist.ID,
		UserID:      user.ID,
		ItemIDs:     []uint{ids[1], ids[2], ids[0]},
		Status:      "in_progress",
	}, "")
	var fields util.FieldErrors
	require.ErrorAs(t, err, &fields)

	// 整批回滚：前两个条目没有留下 in_progress 记录
	var count int64
	db.Model(&model.ChecklistProgress{}).
		Where("checklist_id = ? AND user_id = ? AND status = ?", checklist.ID, user.ID, model.StatusInProgress).
		Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestAssignmentService_BulkUpdateStatus_StaffOnly(t *testing.T) {
	db := newTestDB(t)
	svc := newAssignmentService(db)

	user := seedUser(t, db, "alice", model.Crew)
	checklist, _ := seedAssignedChecklist(t, db, svc, user)

	_, err := svc.BulkUpdateStatus(crewClaims(user), BulkStatusRequest{
		ChecklistID: checklist.ID,
		UserID:      user.ID,
		ItemIDs:     itemIDs(checklist),
		Status:      "in_progress",
	}, "")
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestAssignmentService_BulkUpdateStatus_AppliesAll(t *testing.T) {
	db := newTestDB(t)
	svc := newAssignmentService(db)

	user := seedUser(t, db, "alice", model.Crew)
	instructor := seedUser(t, db, "carol", model.Instructor)
	checklist, _ := seedAssignedChecklist(t, db, svc, user)

	updated, err := svc.BulkUpdateStatus(crewClaims(instructor), BulkStatusRequest{
		ChecklistID: checklist.ID,
		UserID:      user.ID,
		ItemIDs:     itemIDs(checklist),
		Status:      "in_progress",
	}, "")
	require.NoError(t, err)
	assert.Len(t, updated, 3)
	for _, p := range updated {
		assert.Equal(t, model.StatusInProgress, p.Status)
		assert.Equal(t, user.ID, p.UserID)
	}
}

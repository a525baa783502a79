package services

import (
	"context"
	"testing"

	"github.com/darshan-stack/Muncipal-Fund/internal/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitWithoutAuthorities(t *testing.T) {
	gdb, fund, approval := newTestServices(t)
	project := createTestProject(t, fund, 100000)

	_, err := approval.Submit(context.Background(), project.ID)
	assert.ErrorIs(t, err, ErrNoAuthorities)

	var stored models.Project
	require.NoError(t, gdb.First(&stored, "id = ?", project.ID).Error)
	assert.Equal(t, models.ProjectDraft, stored.Status)
	assert.False(t, stored.IsAnonymous)
}

func TestSubmitUnknownProject(t *testing.T) {
	_, _, approval := newTestServices(t)
	registerTestAuthority(t, approval, "auditor1")

	_, err := approval.Submit(context.Background(), "no-such-project")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestSubmitAssignsAndMarksProject(t *testing.T) {
	gdb, fund, approval := newTestServices(t)
	authority := registerTestAuthority(t, approval, "auditor1")
	project := createTestProject(t, fund, 100000)

	req, err := approval.Submit(context.Background(), project.ID)
	require.NoError(t, err)

	assert.Equal(t, authority.ID, req.AuthorityID)
	assert.Equal(t, models.ApprovalPending, req.Status)
	assert.NotEmpty(t, req.TxHash)

	var stored models.Project
	require.NoError(t, gdb.First(&stored, "id = ?", project.ID).Error)
	assert.Equal(t, models.ProjectPendingApproval, stored.Status)
	assert.True(t, stored.IsAnonymous)
	assert.Equal(t, authority.ID, stored.ReviewerID)
	assert.NotNil(t, stored.SubmittedAt)

	var storedAuthority models.Authority
	require.NoError(t, gdb.First(&storedAuthority, "id = ?", authority.ID).Error)
	assert.Equal(t, 1, storedAuthority.ActiveReviews)

	var journal models.Transaction
	require.NoError(t, gdb.First(&journal, "project_id = ? AND type = ?", project.ID, models.TxApprovalSubmission).Error)
}

func TestSubmitPicksLeastLoadedReviewer(t *testing.T) {
	gdb, fund, approval := newTestServices(t)
	first := registerTestAuthority(t, approval, "auditor1")
	second := registerTestAuthority(t, approval, "auditor2")

	assignments := map[string]int{}
	for i := 0; i < 4; i++ {
		project := createTestProject(t, fund, 50000)
		req, err := approval.Submit(context.Background(), project.ID)
		require.NoError(t, err)
		assignments[req.AuthorityID]++
	}

	assert.Equal(t, 2, assignments[first.ID])
	assert.Equal(t, 2, assignments[second.ID])

	var a, b models.Authority
	require.NoError(t, gdb.First(&a, "id = ?", first.ID).Error)
	require.NoError(t, gdb.First(&b, "id = ?", second.ID).Error)
	assert.Equal(t, 2, a.ActiveReviews)
	assert.Equal(t, 2, b.ActiveReviews)
}

func TestListPendingRedactsContractor(t *testing.T) {
	gdb, fund, approval := newTestServices(t)
	authority := registerTestAuthority(t, approval, "auditor1")
	project := createTestProject(t, fund, 100000)

	_, err := approval.Submit(context.Background(), project.ID)
	require.NoError(t, err)

	pending, err := approval.ListPending(context.Background(), authority.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	snapshot := pending[0].Project
	assert.Equal(t, RedactedContractorName, snapshot.ContractorName)
	assert.Equal(t, RedactedContractorWallet, snapshot.ContractorWallet)
	assert.Equal(t, project.Budget, snapshot.Budget)
	assert.Equal(t, project.Category, snapshot.Category)

	// Redaction is view-time only; the stored record keeps true values.
	var stored models.Project
	require.NoError(t, gdb.First(&stored, "id = ?", project.ID).Error)
	assert.Equal(t, "Apex Construction Ltd", stored.ContractorName)
	assert.Equal(t, "0x742d35cc6634c0532925a3b8d4c2c4e4c4c4c4c4", stored.ContractorWallet)
}

func TestDecideApprove(t *testing.T) {
	gdb, fund, approval := newTestServices(t)
	authority := registerTestAuthority(t, approval, "auditor1")
	project := createTestProject(t, fund, 100000)

	// Partial allocation before submission is overwritten on approval.
	_, err := fund.Allocate(context.Background(), AllocationInput{
		ProjectID: project.ID,
		Amount:    40000,
		TxHash:    "0xabc",
	})
	require.NoError(t, err)

	req, err := approval.Submit(context.Background(), project.ID)
	require.NoError(t, err)

	result, err := approval.Decide(context.Background(), req.ID, DecisionInput{
		Decision: models.ApprovalApproved,
		Comments: "Meets municipal requirements",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, models.ApprovalApproved, result.Decision)
	assert.NotEmpty(t, result.TxHash)

	var stored models.Project
	require.NoError(t, gdb.First(&stored, "id = ?", project.ID).Error)
	assert.Equal(t, models.ProjectApproved, stored.Status)
	assert.False(t, stored.IsAnonymous)
	assert.NotNil(t, stored.ApprovedAt)
	assert.Equal(t, 100000.0, stored.AllocatedFunds)

	var storedAuthority models.Authority
	require.NoError(t, gdb.First(&storedAuthority, "id = ?", authority.ID).Error)
	assert.Equal(t, 0, storedAuthority.ActiveReviews)
	assert.Equal(t, 1, storedAuthority.TotalReviewed)

	var journal models.Transaction
	require.NoError(t, gdb.First(&journal, "project_id = ? AND type = ?", project.ID, models.TxProjectApproval).Error)
}

func TestDecideReject(t *testing.T) {
	gdb, fund, approval := newTestServices(t)
	registerTestAuthority(t, approval, "auditor1")
	project := createTestProject(t, fund, 100000)

	_, err := fund.Allocate(context.Background(), AllocationInput{
		ProjectID: project.ID,
		Amount:    25000,
		TxHash:    "0xabc",
	})
	require.NoError(t, err)

	req, err := approval.Submit(context.Background(), project.ID)
	require.NoError(t, err)

	result, err := approval.Decide(context.Background(), req.ID, DecisionInput{
		Decision: models.ApprovalRejected,
		Comments: "Budget exceeds guidelines",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalRejected, result.Decision)

	var stored models.Project
	require.NoError(t, gdb.First(&stored, "id = ?", project.ID).Error)
	assert.Equal(t, models.ProjectRejected, stored.Status)
	assert.True(t, stored.IsAnonymous)
	assert.Equal(t, "Budget exceeds guidelines", stored.RejectionReason)
	// Rejection leaves the allocation counter where it was.
	assert.Equal(t, 25000.0, stored.AllocatedFunds)

	var journal models.Transaction
	require.NoError(t, gdb.First(&journal, "project_id = ? AND type = ?", project.ID, models.TxProjectRejection).Error)
}

func TestDecideTwiceConflicts(t *testing.T) {
	gdb, fund, approval := newTestServices(t)
	authority := registerTestAuthority(t, approval, "auditor1")
	project := createTestProject(t, fund, 100000)

	req, err := approval.Submit(context.Background(), project.ID)
	require.NoError(t, err)

	_, err = approval.Decide(context.Background(), req.ID, DecisionInput{Decision: models.ApprovalApproved})
	require.NoError(t, err)

	_, err = approval.Decide(context.Background(), req.ID, DecisionInput{Decision: models.ApprovalRejected})
	assert.ErrorIs(t, err, ErrApprovalDecided)

	// The second call must not re-apply reviewer side effects.
	var storedAuthority models.Authority
	require.NoError(t, gdb.First(&storedAuthority, "id = ?", authority.ID).Error)
	assert.Equal(t, 0, storedAuthority.ActiveReviews)
	assert.Equal(t, 1, storedAuthority.TotalReviewed)
}

func TestDecideValidation(t *testing.T) {
	_, fund, approval := newTestServices(t)
	registerTestAuthority(t, approval, "auditor1")
	project := createTestProject(t, fund, 100000)

	req, err := approval.Submit(context.Background(), project.ID)
	require.NoError(t, err)

	t.Run("invalid decision", func(t *testing.T) {
		_, err := approval.Decide(context.Background(), req.ID, DecisionInput{Decision: "Maybe"})
		assert.ErrorIs(t, err, ErrInvalidDecision)
	})

	t.Run("unknown approval", func(t *testing.T) {
		_, err := approval.Decide(context.Background(), "no-such-approval", DecisionInput{Decision: models.ApprovalApproved})
		assert.ErrorIs(t, err, ErrApprovalNotFound)
	})
}

func TestAuthorityRegistrationAndLogin(t *testing.T) {
	_, _, approval := newTestServices(t)
	registerTestAuthority(t, approval, "auditor1")

	t.Run("duplicate username", func(t *testing.T) {
		_, err := approval.RegisterAuthority(context.Background(), AuthorityInput{
			Username: "auditor1",
			Password: "another-secret",
		})
		assert.ErrorIs(t, err, ErrAuthorityExists)
	})

	t.Run("valid credentials", func(t *testing.T) {
		authority, err := approval.Authenticate(context.Background(), "auditor1", "review-secret-1")
		require.NoError(t, err)
		assert.Equal(t, "auditor1", authority.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := approval.Authenticate(context.Background(), "auditor1", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := approval.Authenticate(context.Background(), "nobody", "whatever")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

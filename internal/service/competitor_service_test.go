package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/tournament-service/internal/domain"
	"github.com/spec-kit/tournament-service/internal/repository"
	apperrors "github.com/spec-kit/tournament-service/pkg/util"
)

type competitorFixture struct {
	svc         *CompetitorService
	tournaments *fakeTournamentRepo
	competitors *fakeCompetitorRepo
	audit       *fakeAuditRepo
	tournament  *domain.Tournament
	admin       *domain.User
}

func newCompetitorFixture(t *testing.T) *competitorFixture {
	t.Helper()
	tournaments := newFakeTournamentRepo()
	competitors := newFakeCompetitorRepo()
	audit := newFakeAuditRepo()
	auditSvc := NewAuditService(audit, zap.NewNop())

	admin := adminActor()
	tournamentSvc := NewTournamentService(TournamentDependencies{
		TournamentRepo: tournaments,
		Audit:          auditSvc,
	})
	tournament, err := tournamentSvc.Create(context.Background(), admin, validTournamentInput("Spring Cup"))
	require.NoError(t, err)

	return &competitorFixture{
		svc: NewCompetitorService(CompetitorDependencies{
			CompetitorRepo: competitors,
			TournamentRepo: tournaments,
			Audit:          auditSvc,
		}),
		tournaments: tournaments,
		competitors: competitors,
		audit:       audit,
		tournament:  tournament,
		admin:       admin,
	}
}

func competitorInput(tournamentID, first, last string) CompetitorCreateInput {
	return CompetitorCreateInput{
		TournamentID: tournamentID,
		FirstName:    first,
		LastName:     last,
		Gender:       domain.GenderFemale,
		Category:     "U10",
	}
}

func TestCompetitorCreateWhileWindowOpen(t *testing.T) {
	fx := newCompetitorFixture(t)

	competitor, err := fx.svc.Create(context.Background(), nil,
		competitorInput(fx.tournament.ID, "Ana", "Popescu"))
	require.NoError(t, err)
	assert.Equal(t, 1, competitor.PersonalNumber)
	assert.Equal(t, domain.AcceptancePending, competitor.AcceptanceStatus)

	entries := fx.audit.actions(competitor.ID)
	assert.Equal(t, []domain.AuditAction{domain.AuditActionCreate}, entries)
}

func TestCompetitorCreateRejectsUnknownCategory(t *testing.T) {
	fx := newCompetitorFixture(t)

	input := competitorInput(fx.tournament.ID, "Ana", "Popescu")
	input.Category = "U99"
	_, err := fx.svc.Create(context.Background(), nil, input)
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 400, de.HTTPStatus)
	assert.Contains(t, de.Details, "category")
}

func TestCompetitorCreateClosedWindow(t *testing.T) {
	fx := newCompetitorFixture(t)

	// Close the window by ending registration in the past.
	fx.tournament.RegistrationEnd = time.Now().Add(-time.Hour)
	require.NoError(t, fx.tournaments.Update(context.Background(), fx.tournament))

	_, err := fx.svc.Create(context.Background(), nil,
		competitorInput(fx.tournament.ID, "Ana", "Popescu"))
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 400, de.HTTPStatus)

	// Admins bypass the window.
	competitor, err := fx.svc.Create(context.Background(), fx.admin,
		competitorInput(fx.tournament.ID, "Ana", "Popescu"))
	require.NoError(t, err)
	assert.Equal(t, 1, competitor.PersonalNumber)
}

func TestCompetitorCreateNonOpenStatus(t *testing.T) {
	fx := newCompetitorFixture(t)

	fx.tournament.Status = domain.TournamentStatusDraft
	require.NoError(t, fx.tournaments.Update(context.Background(), fx.tournament))

	_, err := fx.svc.Create(context.Background(), nil,
		competitorInput(fx.tournament.ID, "Ana", "Popescu"))
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 400, de.HTTPStatus)
}

func TestCompetitorNameConflict(t *testing.T) {
	fx := newCompetitorFixture(t)

	_, err := fx.svc.Create(context.Background(), nil,
		competitorInput(fx.tournament.ID, "Ana", "Popescu"))
	require.NoError(t, err)

	_, err = fx.svc.Create(context.Background(), nil,
		competitorInput(fx.tournament.ID, "Ana", "Popescu"))
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 409, de.HTTPStatus)
	assert.Contains(t, de.Details, "firstName")
	assert.Contains(t, de.Details, "lastName")
}

func TestCompetitorPersonalNumberNeverReused(t *testing.T) {
	fx := newCompetitorFixture(t)
	ctx := context.Background()

	first, err := fx.svc.Create(ctx, nil, competitorInput(fx.tournament.ID, "Ana", "Popescu"))
	require.NoError(t, err)
	assert.Equal(t, 1, first.PersonalNumber)

	second, err := fx.svc.Create(ctx, nil, competitorInput(fx.tournament.ID, "Ion", "Ionescu"))
	require.NoError(t, err)
	assert.Equal(t, 2, second.PersonalNumber)

	_, err = fx.svc.SoftDelete(ctx, fx.admin, fx.tournament.ID, second.ID)
	require.NoError(t, err)

	// The freed name is reusable; the freed number is not.
	third, err := fx.svc.Create(ctx, nil, competitorInput(fx.tournament.ID, "Ion", "Ionescu"))
	require.NoError(t, err)
	assert.Equal(t, 3, third.PersonalNumber)
}

func TestCompetitorUpdateMergesPatch(t *testing.T) {
	fx := newCompetitorFixture(t)
	ctx := context.Background()

	input := competitorInput(fx.tournament.ID, "Ana", "Popescu")
	team := "Rooks"
	input.Team = &team
	competitor, err := fx.svc.Create(ctx, fx.admin, input)
	require.NoError(t, err)

	newCategory := "Open"
	clearTeam := ""
	school := "CS Junior"
	updated, err := fx.svc.Update(ctx, fx.admin, fx.tournament.ID, competitor.ID, CompetitorPatch{
		Category: &newCategory,
		Team:     &clearTeam,
		School:   &school,
	})
	require.NoError(t, err)

	assert.Equal(t, "Open", updated.Category)
	assert.Nil(t, updated.Team, "empty string clears the nullable field")
	require.NotNil(t, updated.School)
	assert.Equal(t, "CS Junior", *updated.School)
	assert.Equal(t, "Ana", updated.FirstName, "omitted fields keep their value")
	assert.Equal(t, competitor.PersonalNumber, updated.PersonalNumber)

	assert.Equal(t, []domain.AuditAction{
		domain.AuditActionCreate,
		domain.AuditActionUpdate,
	}, fx.audit.actions(competitor.ID))
}

func TestCompetitorUpdateRejectsUnknownCategory(t *testing.T) {
	fx := newCompetitorFixture(t)
	ctx := context.Background()

	competitor, err := fx.svc.Create(ctx, fx.admin, competitorInput(fx.tournament.ID, "Ana", "Popescu"))
	require.NoError(t, err)

	bogus := "U99"
	_, err = fx.svc.Update(ctx, fx.admin, fx.tournament.ID, competitor.ID, CompetitorPatch{Category: &bogus})
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 400, de.HTTPStatus)
}

func TestCompetitorUpdateRejectsUnknownEnumValues(t *testing.T) {
	fx := newCompetitorFixture(t)
	ctx := context.Background()

	competitor, err := fx.svc.Create(ctx, fx.admin, competitorInput(fx.tournament.ID, "Ana", "Popescu"))
	require.NoError(t, err)

	banana := domain.AcceptanceStatus("BANANA")
	_, err = fx.svc.Update(ctx, fx.admin, fx.tournament.ID, competitor.ID, CompetitorPatch{AcceptanceStatus: &banana})
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 400, de.HTTPStatus)
	assert.Contains(t, de.Details, "acceptanceStatus")

	other := domain.Gender("OTHER")
	_, err = fx.svc.Update(ctx, fx.admin, fx.tournament.ID, competitor.ID, CompetitorPatch{Gender: &other})
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 400, de.HTTPStatus)
	assert.Contains(t, de.Details, "gender")

	// Nothing was persisted by the rejected patches.
	stored, err := fx.competitors.GetByID(ctx, fx.tournament.ID, competitor.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AcceptancePending, stored.AcceptanceStatus)
	assert.Equal(t, domain.GenderFemale, stored.Gender)
}

func TestCompetitorUpdateRejectsBlankName(t *testing.T) {
	fx := newCompetitorFixture(t)
	ctx := context.Background()

	competitor, err := fx.svc.Create(ctx, fx.admin, competitorInput(fx.tournament.ID, "Ana", "Popescu"))
	require.NoError(t, err)

	blank := "   "
	_, err = fx.svc.Update(ctx, fx.admin, fx.tournament.ID, competitor.ID, CompetitorPatch{FirstName: &blank})
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 400, de.HTTPStatus)
	assert.Contains(t, de.Details, "firstName")
}

func TestCompetitorUpdateRenameConflict(t *testing.T) {
	fx := newCompetitorFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Create(ctx, fx.admin, competitorInput(fx.tournament.ID, "Ana", "Popescu"))
	require.NoError(t, err)
	other, err := fx.svc.Create(ctx, fx.admin, competitorInput(fx.tournament.ID, "Ion", "Ionescu"))
	require.NoError(t, err)

	first := "Ana"
	last := "Popescu"
	_, err = fx.svc.Update(ctx, fx.admin, fx.tournament.ID, other.ID, CompetitorPatch{
		FirstName: &first,
		LastName:  &last,
	})
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 409, de.HTTPStatus)
}

func TestCompetitorDeleteFlagMatchesSoftDelete(t *testing.T) {
	fx := newCompetitorFixture(t)
	ctx := context.Background()

	viaFlag, err := fx.svc.Create(ctx, fx.admin, competitorInput(fx.tournament.ID, "Ana", "Popescu"))
	require.NoError(t, err)
	viaDelete, err := fx.svc.Create(ctx, fx.admin, competitorInput(fx.tournament.ID, "Ion", "Ionescu"))
	require.NoError(t, err)

	flagged, err := fx.svc.Update(ctx, fx.admin, fx.tournament.ID, viaFlag.ID, CompetitorPatch{Delete: true})
	require.NoError(t, err)
	deleted, err := fx.svc.SoftDelete(ctx, fx.admin, fx.tournament.ID, viaDelete.ID)
	require.NoError(t, err)

	assert.NotNil(t, flagged.DeletedAt)
	assert.NotNil(t, deleted.DeletedAt)
	assert.Equal(t,
		[]domain.AuditAction{domain.AuditActionCreate, domain.AuditActionSoftDelete},
		fx.audit.actions(viaFlag.ID))
	assert.Equal(t,
		[]domain.AuditAction{domain.AuditActionCreate, domain.AuditActionSoftDelete},
		fx.audit.actions(viaDelete.ID))
}

func TestCompetitorReview(t *testing.T) {
	fx := newCompetitorFixture(t)
	ctx := context.Background()

	competitor, err := fx.svc.Create(ctx, nil, competitorInput(fx.tournament.ID, "Ana", "Popescu"))
	require.NoError(t, err)

	notes := "documents verified"
	approved, err := fx.svc.Review(ctx, fx.admin, fx.tournament.ID, competitor.ID, domain.AcceptanceApproved, &notes)
	require.NoError(t, err)
	assert.Equal(t, domain.AcceptanceApproved, approved.AcceptanceStatus)
	require.NotNil(t, approved.AdminNotes)
	assert.Equal(t, "documents verified", *approved.AdminNotes)

	rejected, err := fx.svc.Review(ctx, fx.admin, fx.tournament.ID, competitor.ID, domain.AcceptanceRejected, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.AcceptanceRejected, rejected.AcceptanceStatus)

	_, err = fx.svc.Review(ctx, fx.admin, fx.tournament.ID, competitor.ID, domain.AcceptancePending, nil)
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 400, de.HTTPStatus)

	assert.Equal(t, []domain.AuditAction{
		domain.AuditActionCreate,
		domain.AuditActionApprove,
		domain.AuditActionReject,
	}, fx.audit.actions(competitor.ID))
}

func TestCompetitorAdminOnlyMutations(t *testing.T) {
	fx := newCompetitorFixture(t)
	ctx := context.Background()
	user := regularActor()

	competitor, err := fx.svc.Create(ctx, nil, competitorInput(fx.tournament.ID, "Ana", "Popescu"))
	require.NoError(t, err)

	var de *apperrors.DomainError
	_, err = fx.svc.Update(ctx, user, fx.tournament.ID, competitor.ID, CompetitorPatch{})
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 403, de.HTTPStatus)

	_, err = fx.svc.SoftDelete(ctx, user, fx.tournament.ID, competitor.ID)
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 403, de.HTTPStatus)

	_, err = fx.svc.Review(ctx, user, fx.tournament.ID, competitor.ID, domain.AcceptanceApproved, nil)
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 403, de.HTTPStatus)
}

func TestCompetitorListExcludesDeleted(t *testing.T) {
	fx := newCompetitorFixture(t)
	ctx := context.Background()

	kept, err := fx.svc.Create(ctx, nil, competitorInput(fx.tournament.ID, "Ana", "Popescu"))
	require.NoError(t, err)
	gone, err := fx.svc.Create(ctx, nil, competitorInput(fx.tournament.ID, "Ion", "Ionescu"))
	require.NoError(t, err)

	_, err = fx.svc.SoftDelete(ctx, fx.admin, fx.tournament.ID, gone.ID)
	require.NoError(t, err)

	list, err := fx.svc.List(ctx, fx.tournament.ID, repository.CompetitorFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, kept.ID, list[0].ID)
}

func TestCompetitorCreateOnDeletedTournament(t *testing.T) {
	fx := newCompetitorFixture(t)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, fx.tournaments.SetDeletedAt(ctx, fx.tournament.ID, &now))

	_, err := fx.svc.Create(ctx, fx.admin, competitorInput(fx.tournament.ID, "Ana", "Popescu"))
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 404, de.HTTPStatus)
}

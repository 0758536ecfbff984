package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/teamflow/teamflow-api/internal/apperror"
	"github.com/teamflow/teamflow-api/internal/models"
)

// TeamRepository defines the interface for team and membership operations.
type TeamRepository interface {
	ListForUser(ctx context.Context, userID int64) ([]models.TeamView, error)
	FindByID(ctx context.Context, id int64) (*models.Team, error)
	Create(ctx context.Context, team *models.Team, ownerID int64) error
	Delete(ctx context.Context, id int64) error
	MemberRole(ctx context.Context, teamID, userID int64) (models.TeamRole, bool, error)
	AddMember(ctx context.Context, member *models.TeamMember) error
	RemoveMember(ctx context.Context, teamID, userID int64) error
}

type teamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new TeamRepository instance.
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) ListForUser(ctx context.Context, userID int64) ([]models.TeamView, error) {
	var teams []models.Team
	err := r.db.WithContext(ctx).
		Select("teams.*").
		Joins("JOIN team_members ON team_members.team_id = teams.team_id AND team_members.user_id = ?", userID).
		Order("teams.created_at DESC").
		Order("teams.team_id DESC").
		Find(&teams).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for user %d: %w", userID, err)
	}

	views := make([]models.TeamView, 0, len(teams))
	if len(teams) == 0 {
		return views, nil
	}

	ids := make([]int64, 0, len(teams))
	for _, team := range teams {
		ids = append(ids, team.ID)
	}

	var members []models.MemberView
	err = r.db.WithContext(ctx).
		Table("team_members AS m").
		Select("m.team_id, u.id, u.name, u.email, m.role").
		Joins("JOIN users u ON u.id = m.user_id").
		Where("m.team_id IN ?", ids).
		Order("u.name").
		Scan(&members).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load team members: %w", err)
	}

	byTeam := make(map[int64][]models.MemberView, len(teams))
	for _, member := range members {
		byTeam[member.TeamID] = append(byTeam[member.TeamID], member)
	}

	for _, team := range teams {
		list := byTeam[team.ID]
		if list == nil {
			list = []models.MemberView{}
		}
		views = append(views, models.TeamView{Team: team, Members: list})
	}
	return views, nil
}

func (r *teamRepository) FindByID(ctx context.Context, id int64) (*models.Team, error) {
	var team models.Team
	err := r.db.WithContext(ctx).First(&team, id).Error
	if isNotFound(err) {
		return nil, apperror.NotFound("team not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find team id %d: %w", id, err)
	}
	return &team, nil
}

// Create inserts the team and the owner membership atomically.
func (r *teamRepository) Create(ctx context.Context, team *models.Team, ownerID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			return fmt.Errorf("failed to create team: %w", err)
		}
		owner := &models.TeamMember{TeamID: team.ID, UserID: ownerID, Role: models.TeamRoleOwner}
		if err := tx.Create(owner).Error; err != nil {
			return fmt.Errorf("failed to add team owner: %w", err)
		}
		return nil
	})
}

func (r *teamRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Team{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete team id %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("team not found")
	}
	return nil
}

func (r *teamRepository) MemberRole(ctx context.Context, teamID, userID int64) (models.TeamRole, bool, error) {
	var member models.TeamMember
	err := r.db.WithContext(ctx).Where("team_id = ? AND user_id = ?", teamID, userID).Take(&member).Error
	if isNotFound(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to find membership: %w", err)
	}
	return member.Role, true, nil
}

func (r *teamRepository) AddMember(ctx context.Context, member *models.TeamMember) error {
	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		if isDuplicateKey(err) {
			return apperror.Conflict("user is already a member of this team")
		}
		return fmt.Errorf("failed to add team member: %w", err)
	}
	return nil
}

// RemoveMember deletes a membership. Removing an absent member is a no-op;
// removing the only owner is rejected.
func (r *teamRepository) RemoveMember(ctx context.Context, teamID, userID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var member models.TeamMember
		err := tx.Where("team_id = ? AND user_id = ?", teamID, userID).Take(&member).Error
		if isNotFound(err) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to find membership: %w", err)
		}

		if member.Role == models.TeamRoleOwner {
			var owners int64
			err := tx.Model(&models.TeamMember{}).
				Where("team_id = ? AND role = ?", teamID, models.TeamRoleOwner).
				Count(&owners).Error
			if err != nil {
				return fmt.Errorf("failed to count team owners: %w", err)
			}
			if owners <= 1 {
				return apperror.Validation("cannot remove the last owner of a team")
			}
		}

		if err := tx.Where("team_id = ? AND user_id = ?", teamID, userID).Delete(&models.TeamMember{}).Error; err != nil {
			return fmt.Errorf("failed to remove team member: %w", err)
		}
		return nil
	})
}

package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/teamflow/teamflow-api/internal/apperror"
	"github.com/teamflow/teamflow-api/internal/models"
	"github.com/teamflow/teamflow-api/internal/repository"
)

const maxTeamNameLength = 100

// CreateTeamRequest accepts the team name under team_name, title or name.
type CreateTeamRequest struct {
	TeamName    string `json:"team_name"`
	Title       string `json:"title"`
	Name        string `json:"name"`
	Description string `json:"description"`
	AccentColor string `json:"accent_color"`
}

// DisplayName returns the first non-blank name alias.
func (r CreateTeamRequest) DisplayName() string {
	for _, candidate := range []string{r.TeamName, r.Title, r.Name} {
		if name := strings.TrimSpace(candidate); name != "" {
			return name
		}
	}
	return ""
}

type AddMemberRequest struct {
	Email string          `json:"email" binding:"required"`
	Role  models.TeamRole `json:"role"`
}

type TeamService interface {
	List(ctx context.Context, caller models.Caller) ([]models.TeamView, error)
	Create(ctx context.Context, req CreateTeamRequest, caller models.Caller) (int64, error)
	Delete(ctx context.Context, teamID int64, caller models.Caller) error
	AddMember(ctx context.Context, teamID int64, req AddMemberRequest, caller models.Caller) error
	RemoveMember(ctx context.Context, teamID, userID int64, caller models.Caller) error
}

type teamService struct {
	teamRepo repository.TeamRepository
	userRepo repository.UserRepository
	activity ActivityLogger
}

func NewTeamService(teamRepo repository.TeamRepository, userRepo repository.UserRepository, activity ActivityLogger) TeamService {
	return &teamService{teamRepo: teamRepo, userRepo: userRepo, activity: activity}
}

func (s *teamService) List(ctx context.Context, caller models.Caller) ([]models.TeamView, error) {
	return s.teamRepo.ListForUser(ctx, caller.ID)
}

func (s *teamService) Create(ctx context.Context, req CreateTeamRequest, caller models.Caller) (int64, error) {
	name := req.DisplayName()
	if name == "" {
		return 0, apperror.Validation("team name is required")
	}
	if utf8.RuneCountInString(name) > maxTeamNameLength {
		return 0, apperror.Validation("team name must be at most %d characters", maxTeamNameLength)
	}

	team := &models.Team{
		TeamName:    name,
		Description: strings.TrimSpace(req.Description),
		AccentColor: strings.TrimSpace(req.AccentColor),
	}
	if err := s.teamRepo.Create(ctx, team, caller.ID); err != nil {
		return 0, err
	}

	s.activity.Record(ctx, &caller.ID, "", fmt.Sprintf("Created team: %s", team.TeamName))
	return team.ID, nil
}

// Delete requires a global admin or the team owner.
func (s *teamService) Delete(ctx context.Context, teamID int64, caller models.Caller) error {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return err
	}

	if !caller.IsAdmin() {
		role, err := s.callerRole(ctx, teamID, caller)
		if err != nil {
			return err
		}
		if role != models.TeamRoleOwner {
			return apperror.Authorization("only the team owner can delete this team")
		}
	}

	if err := s.teamRepo.Delete(ctx, teamID); err != nil {
		return err
	}

	s.activity.Record(ctx, &caller.ID, "", fmt.Sprintf("Deleted team: %s", team.TeamName))
	return nil
}

// AddMember requires a global admin or a team owner/admin. Only global admins
// and owners may grant the owner role.
func (s *teamService) AddMember(ctx context.Context, teamID int64, req AddMemberRequest, caller models.Caller) error {
	email := models.NormalizeEmail(req.Email)
	if email == "" {
		return apperror.Validation("email is required")
	}

	role := req.Role
	if role == "" {
		role = models.TeamRoleMember
	}
	if !role.Valid() {
		return apperror.Validation("invalid team role %q", role)
	}

	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return err
	}

	if !caller.IsAdmin() {
		callerRole, err := s.callerRole(ctx, teamID, caller)
		if err != nil {
			return err
		}
		if !callerRole.CanManage() {
			return apperror.Authorization("only team owners and admins can add members")
		}
		if role == models.TeamRoleOwner && callerRole != models.TeamRoleOwner {
			return apperror.Authorization("only team owners can grant the owner role")
		}
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	if _, exists, err := s.teamRepo.MemberRole(ctx, teamID, user.ID); err != nil {
		return err
	} else if exists {
		return apperror.Conflict("user is already a member of this team")
	}

	member := &models.TeamMember{TeamID: teamID, UserID: user.ID, Role: role}
	if err := s.teamRepo.AddMember(ctx, member); err != nil {
		return err
	}

	s.activity.Record(ctx, &caller.ID, "",
		fmt.Sprintf("Added %s to team %s as %s", user.Email, team.TeamName, role))
	return nil
}

// RemoveMember is allowed for global admins, team owners/admins and the
// member themself. Removing an owner needs a global admin or another owner.
func (s *teamService) RemoveMember(ctx context.Context, teamID, userID int64, caller models.Caller) error {
	if !caller.IsAdmin() && caller.ID != userID {
		callerRole, err := s.callerRole(ctx, teamID, caller)
		if err != nil {
			return err
		}
		if !callerRole.CanManage() {
			return apperror.Authorization("only team owners and admins can remove members")
		}
		if callerRole != models.TeamRoleOwner {
			targetRole, _, err := s.teamRepo.MemberRole(ctx, teamID, userID)
			if err != nil {
				return err
			}
			if targetRole == models.TeamRoleOwner {
				return apperror.Authorization("only team owners can remove an owner")
			}
		}
	}

	if err := s.teamRepo.RemoveMember(ctx, teamID, userID); err != nil {
		return err
	}

	s.activity.Record(ctx, &caller.ID, "", fmt.Sprintf("Removed user #%d from team #%d", userID, teamID))
	return nil
}

// callerRole returns the caller's membership role, or "" when not a member.
func (s *teamService) callerRole(ctx context.Context, teamID int64, caller models.Caller) (models.TeamRole, error) {
	role, ok, err := s.teamRepo.MemberRole(ctx, teamID, caller.ID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	return role, nil
}

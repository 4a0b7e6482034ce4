package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/automeet/automeet/backend/internal/audit"
	"github.com/automeet/automeet/backend/internal/codes"
	"github.com/automeet/automeet/backend/internal/config"
	"github.com/automeet/automeet/backend/internal/logger"
	"github.com/automeet/automeet/backend/internal/models"
	"github.com/automeet/automeet/backend/internal/store"
)

// Invitation flow errors.
var (
	ErrInviteInvalid  = errors.New("invite token is invalid")
	ErrInviteExpired  = errors.New("invite has expired")
	ErrInviteConsumed = errors.New("invite is no longer pending")
)

// inviteTTL is how long an invite token stays valid.
const inviteTTL = 48 * time.Hour

// inviteTokenBytes of entropy go into each invite token.
const inviteTokenBytes = 32

// TeamService manages team roles and email invitations into them.
type TeamService struct {
	db       *gorm.DB
	roles    *store.Store[models.TeamRole]
	invites  *store.Store[models.TeamInvite]
	recorder *audit.Recorder
	mail     *MailService
	notify   *NotificationService
	cfg      config.Config
}

// NewTeamService creates a new team service instance.
func NewTeamService(db *gorm.DB, recorder *audit.Recorder, mail *MailService, notify *NotificationService, cfg config.Config) *TeamService {
	return &TeamService{
		db:       db,
		roles:    store.New[models.TeamRole](db),
		invites:  store.New[models.TeamInvite](db),
		recorder: recorder,
		mail:     mail,
		notify:   notify,
		cfg:      cfg,
	}
}

// Roles exposes the team-role store for read paths.
func (s *TeamService) Roles() *store.Store[models.TeamRole] { return s.roles }

// Invites exposes the invite store for read paths.
func (s *TeamService) Invites() *store.Store[models.TeamInvite] { return s.invites }

// CreateRole persists a new team role and audits the creation.
func (s *TeamService) CreateRole(name, description string, actorUUID *string) (*models.TeamRole, error) {
	created, err := s.roles.Create(&models.TeamRole{Name: name, Description: description})
	if err != nil {
		return nil, err
	}
	if _, err := s.recorder.Record(audit.Entry{
		New:         audit.Snapshot(created),
		Entity:      "TeamRole",
		Action:      models.ActionCreate,
		UserUUID:    actorUUID,
		Description: fmt.Sprintf("Team role %q created", created.Name),
	}); err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateRole applies the given column values and audits the change.
func (s *TeamService) UpdateRole(roleUUID string, fields map[string]any, actorUUID *string) (*models.TeamRole, error) {
	existing, err := s.roles.Get(roleUUID, false)
	if err != nil {
		return nil, err
	}
	before := audit.Snapshot(existing)

	updated, err := s.roles.Update(existing, fields)
	if err != nil {
		return nil, err
	}

	if _, err := s.recorder.Record(audit.Entry{
		Previous:    before,
		New:         audit.Snapshot(updated),
		Entity:      "TeamRole",
		Action:      models.ActionUpdate,
		UserUUID:    actorUUID,
		Description: fmt.Sprintf("Team role %q updated", updated.Name),
	}); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteRole removes the role and audits the removal.
func (s *TeamService) DeleteRole(roleUUID string, actorUUID *string) error {
	existing, err := s.roles.Get(roleUUID, false)
	if err != nil {
		return err
	}
	before := audit.Snapshot(existing)

	if _, err := s.roles.Remove(existing); err != nil {
		return err
	}

	_, err = s.recorder.Record(audit.Entry{
		Previous:    before,
		Entity:      "TeamRole",
		Action:      models.ActionDelete,
		UserUUID:    actorUUID,
		Description: fmt.Sprintf("Team role %q deleted", existing.Name),
	})
	return err
}

// Invite creates a pending invitation with a fresh token and mails it
// when mail is configured. The inviter is notified if their settings
// allow it.
func (s *TeamService) Invite(email, roleUUID, invitedByUUID string) (*models.TeamInvite, error) {
	if _, err := s.roles.Get(roleUUID, false); err != nil {
		return nil, err
	}

	token, err := codes.GenerateSecretKey(inviteTokenBytes)
	if err != nil {
		return nil, err
	}
	expires := time.Now().Add(inviteTTL)

	created, err := s.invites.Create(&models.TeamInvite{
		Email:         email,
		Token:         token,
		ExpiresAt:     &expires,
		RoleUUID:      roleUUID,
		InvitedByUUID: invitedByUUID,
		Status:        models.InviteStatusPending,
	})
	if err != nil {
		return nil, err
	}

	if s.mail.IsConfigured() {
		if err := s.mail.SendInvite(email, token, s.cfg.FrontendURL); err != nil {
			logger.Log().WithError(err).WithField("email", email).Warn("Failed to send invite email")
		}
	}

	if _, err := s.recorder.Record(audit.Entry{
		New:         audit.Snapshot(created),
		Entity:      "TeamInvite",
		Action:      models.ActionCreate,
		UserUUID:    &invitedByUUID,
		Description: fmt.Sprintf("Invite sent to %s", email),
	}); err != nil {
		return nil, err
	}

	s.notify.Dispatch(invitedByUUID, EventTeamInvitation,
		fmt.Sprintf("Invitation sent to %s", email))

	return created, nil
}

// Validate looks up a pending invite by token. Expired invites are moved
// to the expired state on sight.
func (s *TeamService) Validate(token string) (*models.TeamInvite, error) {
	var invite models.TeamInvite
	err := s.db.Preload("Role").Where("token = ?", token).First(&invite).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInviteInvalid
	}
	if err != nil {
		return nil, fmt.Errorf("lookup invite: %w", err)
	}
	if invite.Status != models.InviteStatusPending {
		return nil, ErrInviteConsumed
	}
	if invite.IsExpired() {
		if _, err := s.invites.Update(&invite, map[string]any{"status": models.InviteStatusExpired}); err != nil {
			return nil, err
		}
		return nil, ErrInviteExpired
	}
	return &invite, nil
}

// Accept consumes the invite for the given user, adding them to the
// invited role's membership.
func (s *TeamService) Accept(token, userUUID string) (*models.TeamInvite, error) {
	invite, err := s.Validate(token)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		member := map[string]any{"role_uuid": invite.RoleUUID, "user_uuid": userUUID}
		return tx.Table("team_members").Create(member).Error
	})
	if err != nil {
		return nil, fmt.Errorf("add team member: %w", err)
	}

	updated, err := s.invites.Update(invite, map[string]any{"status": models.InviteStatusAccepted})
	if err != nil {
		return nil, err
	}

	if _, err := s.recorder.Record(audit.Entry{
		Previous:    audit.Snapshot(invite),
		New:         audit.Snapshot(updated),
		Entity:      "TeamInvite",
		Action:      models.ActionUpdate,
		UserUUID:    &userUUID,
		Description: fmt.Sprintf("Invite for %s accepted", invite.Email),
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// Revoke cancels a pending invite.
func (s *TeamService) Revoke(inviteUUID string, actorUUID *string) (*models.TeamInvite, error) {
	existing, err := s.invites.Get(inviteUUID, true)
	if err != nil {
		return nil, err
	}
	if existing.Status != models.InviteStatusPending {
		return nil, ErrInviteConsumed
	}
	before := audit.Snapshot(existing)

	updated, err := s.invites.Update(existing, map[string]any{"status": models.InviteStatusRevoked})
	if err != nil {
		return nil, err
	}

	if _, err := s.recorder.Record(audit.Entry{
		Previous:    before,
		New:         audit.Snapshot(updated),
		Entity:      "TeamInvite",
		Action:      models.ActionUpdate,
		UserUUID:    actorUUID,
		Description: fmt.Sprintf("Invite for %s revoked", existing.Email),
	}); err != nil {
		return nil, err
	}
	return updated, nil
}

// ExpireStale marks pending invites past their deadline as expired and
// returns the count.
func (s *TeamService) ExpireStale() (int64, error) {
	res := s.db.Model(&models.TeamInvite{}).
		Where("status = ? AND expires_at <= ?", models.InviteStatusPending, time.Now()).
		Update("status", models.InviteStatusExpired)
	if res.Error != nil {
		return 0, fmt.Errorf("expire stale invites: %w", res.Error)
	}
	return res.RowsAffected, nil
}

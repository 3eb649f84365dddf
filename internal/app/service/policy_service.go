package service

import (
	"context"
	"fmt"

	"github.com/vilgotf/voice-pruner/internal/infra/storage"
)

type PolicyService struct {
	repo PolicyRepo
}

func NewPolicyService(r PolicyRepo) *PolicyService { return &PolicyService{repo: r} }

type PolicyPatch struct {
	AutopruneEnabled *bool
	ExemptRoleName   *string
}

func (s *PolicyService) GetPolicy(ctx context.Context, guildID string) (storage.GuildPolicy, error) {
	return s.repo.Get(ctx, guildID)
}

func (s *PolicyService) Show(ctx context.Context, guildID string) (string, error) {
	p, err := s.repo.Get(ctx, guildID)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(
		"**Policy de %s**\n• autoprune_enabled: **%v**\n• exempt_role_name: **%s**",
		guildID, p.AutopruneEnabled, p.ExemptRoleName,
	), nil
}

func (s *PolicyService) Update(ctx context.Context, guildID string, patch PolicyPatch) (string, error) {
	_, err := s.repo.Update(ctx, guildID, storage.GuildPolicyUpdate{
		AutopruneEnabled: patch.AutopruneEnabled,
		ExemptRoleName:   patch.ExemptRoleName,
	})
	if err != nil {
		return "", err
	}
	return s.Show(ctx, guildID)
}

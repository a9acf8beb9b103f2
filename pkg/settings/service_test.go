package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-loginlogout/pkg/redirect"
)

type failingRepository struct {
	*InMemorySettingsRepository
}

func (failingRepository) GetValue(ctx context.Context, module, key string) (string, error) {
	return "", errors.New("connection refused")
}

func (failingRepository) SetValue(ctx context.Context, module, key, value string) error {
	return errors.New("connection refused")
}

func TestSettingsService_ConfigurationText(t *testing.T) {
	ctx := context.Background()
	svc := NewSettingsService(NewInMemorySettingsRepository())

	raw, err := svc.GetConfigurationText(ctx, DefaultModuleKey)
	require.NoError(t, err)
	assert.Equal(t, "", raw, "unset configuration reads as empty")

	diags, err := svc.UpdateRoleRedirects(ctx, DefaultModuleKey, "admin=/clients/\nstaff=/clients/")
	require.NoError(t, err)
	assert.Empty(t, diags)

	raw, err = svc.GetConfigurationText(ctx, DefaultModuleKey)
	require.NoError(t, err)
	assert.Equal(t, "admin=/clients/\nstaff=/clients/", raw)

	// other module keys stay independent
	raw, err = svc.GetConfigurationText(ctx, "OtherModule")
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestSettingsService_UpdateRoleRedirects_KeepsMalformedText(t *testing.T) {
	ctx := context.Background()
	svc := NewSettingsService(NewInMemorySettingsRepository())

	raw := "admin=/clients/\njusttext\n=/x/"
	diags, err := svc.UpdateRoleRedirects(ctx, DefaultModuleKey, raw)
	require.NoError(t, err)
	require.Len(t, diags, 2)
	assert.ErrorIs(t, diags[0], redirect.ErrMissingSeparator)
	assert.ErrorIs(t, diags[1], redirect.ErrEmptyRole)

	stored, err := svc.GetConfigurationText(ctx, DefaultModuleKey)
	require.NoError(t, err)
	assert.Equal(t, raw, stored)
}

func TestSettingsService_LoginNotice(t *testing.T) {
	ctx := context.Background()
	svc := NewSettingsService(NewInMemorySettingsRepository())

	notice, err := svc.GetLoginNotice(ctx, DefaultModuleKey)
	require.NoError(t, err)
	assert.Empty(t, notice)

	require.NoError(t, svc.SetLoginNotice(ctx, DefaultModuleKey, "**Maintenance** tonight"))
	notice, err = svc.GetLoginNotice(ctx, DefaultModuleKey)
	require.NoError(t, err)
	assert.Equal(t, "**Maintenance** tonight", notice)
}

func TestSettingsService_RepositoryErrors(t *testing.T) {
	ctx := context.Background()
	svc := NewSettingsService(failingRepository{NewInMemorySettingsRepository()})

	_, err := svc.GetConfigurationText(ctx, DefaultModuleKey)
	assert.Error(t, err)

	_, err = svc.UpdateRoleRedirects(ctx, DefaultModuleKey, "admin=/a/")
	assert.Error(t, err)

	assert.Error(t, svc.SetLoginNotice(ctx, DefaultModuleKey, "x"))
}

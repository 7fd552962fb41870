package shops

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shopquill/shopquill-backend/pkg/config"
	"github.com/shopquill/shopquill-backend/pkg/db/models"
	pkgerrors "github.com/shopquill/shopquill-backend/pkg/errors"
)

type stubShopRepo struct {
	byDomain    map[string]*models.Shop
	created     []*models.Shop
	createErr   error
	commitOK    bool
	commitErr   error
	commitCalls int
	tokenUpdate string
	deleted     []string
}

func newStubShopRepo() *stubShopRepo {
	return &stubShopRepo{byDomain: map[string]*models.Shop{}, commitOK: true}
}

func (s *stubShopRepo) Create(_ context.Context, shop *models.Shop) error {
	if s.createErr != nil {
		return s.createErr
	}
	if shop.ID == uuid.Nil {
		shop.ID = uuid.New()
	}
	s.created = append(s.created, shop)
	s.byDomain[shop.ShopDomain] = shop
	return nil
}

func (s *stubShopRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Shop, error) {
	for _, shop := range s.byDomain {
		if shop.ID == id {
			return shop, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubShopRepo) FindByDomain(_ context.Context, domain string) (*models.Shop, error) {
	if shop, ok := s.byDomain[domain]; ok {
		return shop, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubShopRepo) UpdateAccessToken(_ context.Context, _ uuid.UUID, token string) error {
	s.tokenUpdate = token
	return nil
}

func (s *stubShopRepo) CommitUsage(_ context.Context, _ uuid.UUID) (bool, error) {
	s.commitCalls++
	return s.commitOK, s.commitErr
}

func (s *stubShopRepo) DeleteByDomain(_ context.Context, domain string) error {
	s.deleted = append(s.deleted, domain)
	delete(s.byDomain, domain)
	return nil
}

func newTestService(t *testing.T, repo *stubShopRepo) Service {
	t.Helper()
	svc, err := NewService(repo, config.UsageConfig{DefaultLimit: 100})
	require.NoError(t, err)
	return svc
}

func TestNewServiceRequiresRepo(t *testing.T) {
	_, err := NewService(nil, config.UsageConfig{})
	assert.Error(t, err)
}

func TestEnsureProvisionsFirstUse(t *testing.T) {
	repo := newStubShopRepo()
	svc := newTestService(t, repo)

	shop, err := svc.Ensure(context.Background(), "New-Shop.myshopify.com", "shpat_abc")
	require.NoError(t, err)

	assert.Equal(t, "new-shop.myshopify.com", shop.ShopDomain)
	assert.Equal(t, "shpat_abc", shop.AccessToken)
	require.NotNil(t, shop.UsageLimit)
	assert.Equal(t, 100, *shop.UsageLimit)
	assert.Equal(t, 0, shop.UsageCount)
	assert.Len(t, repo.created, 1)
}

func TestEnsureZeroDefaultLimitMeansUnlimited(t *testing.T) {
	repo := newStubShopRepo()
	svc, err := NewService(repo, config.UsageConfig{DefaultLimit: 0})
	require.NoError(t, err)

	shop, err := svc.Ensure(context.Background(), "open.myshopify.com", "shpat_abc")
	require.NoError(t, err)
	assert.Nil(t, shop.UsageLimit)
}

func TestEnsureReturnsExistingAndRefreshesToken(t *testing.T) {
	repo := newStubShopRepo()
	existing := &models.Shop{ID: uuid.New(), ShopDomain: "old.myshopify.com", AccessToken: "shpat_old"}
	repo.byDomain[existing.ShopDomain] = existing
	svc := newTestService(t, repo)

	shop, err := svc.Ensure(context.Background(), "old.myshopify.com", "shpat_new")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, shop.ID)
	assert.Equal(t, "shpat_new", shop.AccessToken)
	assert.Equal(t, "shpat_new", repo.tokenUpdate)
	assert.Empty(t, repo.created)
}

func TestEnsureRejectsInvalidDomain(t *testing.T) {
	svc := newTestService(t, newStubShopRepo())

	_, err := svc.Ensure(context.Background(), "not-a-shop.example.com", "shpat_abc")
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestCheckQuota(t *testing.T) {
	svc := newTestService(t, newStubShopRepo())

	limit := 5
	assert.NoError(t, svc.CheckQuota(&models.Shop{UsageCount: 4, UsageLimit: &limit}))
	assert.NoError(t, svc.CheckQuota(&models.Shop{UsageCount: 1000}))

	err := svc.CheckQuota(&models.Shop{UsageCount: 5, UsageLimit: &limit})
	assert.Equal(t, pkgerrors.CodeQuotaExhausted, pkgerrors.CodeOf(err))

	err = svc.CheckQuota(nil)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestCommitUsageCeilingBecomesQuotaError(t *testing.T) {
	repo := newStubShopRepo()
	repo.commitOK = false
	svc := newTestService(t, repo)

	err := svc.CommitUsage(context.Background(), uuid.New())
	assert.Equal(t, pkgerrors.CodeQuotaExhausted, pkgerrors.CodeOf(err))
	assert.Equal(t, 1, repo.commitCalls)
}

func TestUninstallDeletesShop(t *testing.T) {
	repo := newStubShopRepo()
	repo.byDomain["bye.myshopify.com"] = &models.Shop{ID: uuid.New(), ShopDomain: "bye.myshopify.com"}
	svc := newTestService(t, repo)

	require.NoError(t, svc.Uninstall(context.Background(), " Bye.myshopify.com "))
	assert.Equal(t, []string{"bye.myshopify.com"}, repo.deleted)

	err := svc.Uninstall(context.Background(), "  ")
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

// Package app связывает компоненты портала: хранилище токенов, клиент API,
// контроллер аутентификации и страницы.
package app

import (
	"context"
	"fmt"

	"classbook/internal/portal/adapters/api"
	"classbook/internal/portal/adapters/storage"
	"classbook/internal/portal/app/auth"
	"classbook/internal/portal/app/navigator"
	"classbook/internal/portal/app/pages"
	"classbook/internal/portal/config"
	storageport "classbook/internal/portal/ports/storage"
)

// Portal - собранные компоненты одного процесса.
type Portal struct {
	Store     storageport.TokenStore
	Market    *api.Marketplace
	Session   *auth.Controller
	Pages     *pages.Service
	Navigator *navigator.Navigator
}

// New собирает компоненты по конфигурации. Состояние аутентификации остается Unresolved
// до вызова Session.Start.
func New(ctx context.Context, cfg *config.Config, opts ...auth.Option) (*Portal, error) {
	store, err := storage.New(ctx, &cfg.Storage, &cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("creating token store: %w", err)
	}

	client := api.NewClient(cfg.API.BaseURL,
		api.WithTimeout(cfg.API.RequestTimeout),
		api.WithInterceptor(api.BearerInterceptor(store)))

	return Assemble(store, api.NewMarketplace(client), opts...), nil
}

// Assemble собирает портал из готовых хранилища и маркетплейса.
func Assemble(store storageport.TokenStore, market *api.Marketplace, opts ...auth.Option) *Portal {
	session := auth.NewController(store, market, opts...)
	svc := pages.NewService(market, session)

	return &Portal{
		Store:     store,
		Market:    market,
		Session:   session,
		Pages:     svc,
		Navigator: navigator.New(session, svc),
	}
}

// Close освобождает хранилище токенов.
func (p *Portal) Close() error {
	return p.Store.Close()
}

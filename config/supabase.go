package config

import (
	"errors"
	"fmt"

	supa "github.com/supabase-community/supabase-go"
)

// NewSupabaseClient creates a Supabase client authenticated with the service key.
func NewSupabaseClient(cfg SupabaseConfig) (*supa.Client, error) {
	if cfg.URL == "" || cfg.ServiceKey == "" {
		return nil, errors.New("config: supabase url and service key are required")
	}
	client, err := supa.NewClient(cfg.URL, cfg.ServiceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("config: init supabase client: %w", err)
	}
	return client, nil
}

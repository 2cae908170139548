package core

import (
	"context"
	"fmt"

	"rnacolumns/internal/columns"
	"rnacolumns/pkg/domain"
)

// ConfigurationSummary describes one saved configuration.
type ConfigurationSummary struct {
	Name      string   `json:"name"`
	Columns   []string `json:"columns"`
	SortIndex int      `json:"sort_index"`
}

// Configurations lists a workspace's saved configurations sorted by name.
func (s *Service) Configurations(ctx context.Context, workspace string) (out []ConfigurationSummary, err error) {
	ctx, done := s.instrument(ctx, "configurations")
	defer done(&err)

	jar, err := jarFor(workspace)
	if err != nil {
		return nil, err
	}
	keys, err := s.store.Keys(ctx, jar)
	if err != nil {
		return nil, fmt.Errorf("list configurations: %w", err)
	}
	out = make([]ConfigurationSummary, 0, len(keys))
	for _, key := range keys {
		name, ok := columns.ConfigNameFromKey(key)
		if !ok {
			continue
		}
		raw, found, err := s.store.Get(ctx, jar, key)
		if err != nil {
			return nil, fmt.Errorf("load configuration %s: %w", name, err)
		}
		if !found {
			continue
		}
		cfg := columns.Decode(raw)
		labels := make([]string, len(cfg.Tokens))
		for i, t := range cfg.Tokens {
			labels[i] = t.Label()
		}
		out = append(out, ConfigurationSummary{Name: name, Columns: labels, SortIndex: cfg.SortIndex})
	}
	return out, nil
}

// SaveAs copies the source configuration string verbatim to target and
// returns the number of columns copied. An existing target is overwritten.
func (s *Service) SaveAs(ctx context.Context, workspace, source, target string) (n int, err error) {
	ctx, done := s.instrument(ctx, "save_as")
	defer done(&err)

	jar, err := jarFor(workspace)
	if err != nil {
		return 0, err
	}
	src, err := configName(source)
	if err != nil {
		return 0, err
	}
	dst, err := columns.NormalizeConfigName(target)
	if err != nil {
		return 0, err
	}
	annotate(ctx, "workspace", workspace, "from", src, "to", dst)
	raw, found, err := s.store.Get(ctx, jar, columns.ConfigKey(src))
	if err != nil {
		return 0, fmt.Errorf("load configuration %s: %w", src, err)
	}
	if !found {
		return 0, domain.NewConfigError("save", "configuration %s does not exist", src)
	}
	if err := s.store.Put(ctx, jar, columns.ConfigKey(dst), raw); err != nil {
		return 0, fmt.Errorf("save configuration %s: %w", dst, err)
	}
	n = columns.TokenCount(raw)
	s.logger.InfoContext(ctx, "configuration saved", "workspace", workspace, "from", src, "to", dst, "columns", n)
	return n, nil
}

// DeleteConfigurations removes each named configuration that exists and
// returns how many were removed.
func (s *Service) DeleteConfigurations(ctx context.Context, workspace string, names ...string) (n int, err error) {
	ctx, done := s.instrument(ctx, "delete_configurations")
	defer done(&err)

	jar, err := jarFor(workspace)
	if err != nil {
		return 0, err
	}
	for _, raw := range names {
		name, err := configName(raw)
		if err != nil {
			return n, err
		}
		removed, err := s.store.Delete(ctx, jar, columns.ConfigKey(name))
		if err != nil {
			return n, fmt.Errorf("delete configuration %s: %w", name, err)
		}
		if removed {
			n++
			s.logger.InfoContext(ctx, "configuration deleted", "workspace", workspace, "configuration", name)
		}
	}
	return n, nil
}

// RenameConfiguration moves a configuration to a new name and returns the
// normalized name it was stored under. The old name must exist and the new
// one must not.
func (s *Service) RenameConfiguration(ctx context.Context, workspace, oldName, newName string) (stored string, err error) {
	ctx, done := s.instrument(ctx, "rename_configuration")
	defer done(&err)

	jar, err := jarFor(workspace)
	if err != nil {
		return "", err
	}
	from, err := configName(oldName)
	if err != nil {
		return "", err
	}
	to, err := columns.NormalizeConfigName(newName)
	if err != nil {
		return "", err
	}
	annotate(ctx, "workspace", workspace, "from", from, "to", to)
	raw, found, err := s.store.Get(ctx, jar, columns.ConfigKey(from))
	if err != nil {
		return "", fmt.Errorf("load configuration %s: %w", from, err)
	}
	if !found {
		return "", domain.NewConfigError("rename", "configuration %s does not exist", from)
	}
	if _, exists, err := s.store.Get(ctx, jar, columns.ConfigKey(to)); err != nil {
		return "", fmt.Errorf("load configuration %s: %w", to, err)
	} else if exists {
		return "", domain.NewConfigError("rename", "configuration %s already exists", to)
	}
	if err := s.store.Put(ctx, jar, columns.ConfigKey(to), raw); err != nil {
		return "", fmt.Errorf("save configuration %s: %w", to, err)
	}
	if _, err := s.store.Delete(ctx, jar, columns.ConfigKey(from)); err != nil {
		return "", fmt.Errorf("delete configuration %s: %w", from, err)
	}
	s.logger.InfoContext(ctx, "configuration renamed", "workspace", workspace, "from", from, "to", to)
	return to, nil
}

package db

import (
	"community-bot/pkg/config"
	"context"
	"errors"

	"github.com/disgoorg/snowflake/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	createTableQuery        = "CREATE TABLE IF NOT EXISTS config (guild_id BIGINT PRIMARY KEY, roles_channel_id BIGINT NOT NULL DEFAULT 0, roles_message_id BIGINT NOT NULL DEFAULT 0);"
	selectQuery             = "SELECT roles_channel_id, roles_message_id FROM config WHERE guild_id = $1;"
	upsertRolesMessageQuery = "INSERT INTO config (guild_id, roles_channel_id, roles_message_id) VALUES ($1, $2, $3) ON CONFLICT(guild_id) DO UPDATE SET roles_channel_id=excluded.roles_channel_id, roles_message_id=excluded.roles_message_id;"
)

type DB struct {
	pool *pgxpool.Pool
}

func NewDB(pool *pgxpool.Pool) *DB {
	return &DB{pool: pool}
}

func (db *DB) Migrate(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, createTableQuery)
	return err
}

func (db *DB) GetGuildConfig(ctx context.Context, guildID snowflake.ID) (cfg config.Guild, err error) {
	rows, _ := db.pool.Query(ctx, selectQuery, int64(guildID))
	cfg, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[config.Guild])
	if err != nil && errors.Is(err, pgx.ErrNoRows) {
		err = nil
	}
	return
}

// RoleMessage implements roles.MessageStore.
func (db *DB) RoleMessage(ctx context.Context, guildID snowflake.ID) (channelID snowflake.ID, messageID snowflake.ID, err error) {
	cfg, err := db.GetGuildConfig(ctx, guildID)
	if err != nil {
		return 0, 0, err
	}
	return snowflake.ID(cfg.RolesChannelID), snowflake.ID(cfg.RolesMessageID), nil
}

func (db *DB) SaveRoleMessage(ctx context.Context, guildID snowflake.ID, channelID snowflake.ID, messageID snowflake.ID) error {
	_, err := db.pool.Exec(ctx, upsertRolesMessageQuery, int64(guildID), int64(channelID), int64(messageID))
	return err
}

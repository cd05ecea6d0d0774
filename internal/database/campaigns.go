package database

import (
	"database/sql"
	"fmt"
)

const campaignColumns = "id, name, description, world_story, owner_id, is_public, " +
	"max_players, join_code, is_archived, created_at, updated_at"

func scanCampaign(row *sql.Row) (Campaign, error) {
	var c Campaign
	err := row.Scan(
		&c.Id,
		&c.Name,
		&c.Description,
		&c.WorldStory,
		&c.OwnerId,
		&c.IsPublic,
		&c.MaxPlayers,
		&c.JoinCode,
		&c.IsArchived,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

func (db *PgCampfireRepository) CreateCampaign(params CreateCampaignParams) (Campaign, error) {
	row := db.conn.QueryRow(
		"INSERT INTO campaigns (name, description, world_story, owner_id, is_public, max_players, join_code) "+
			"VALUES ($1, $2, $3, $4, $5, $6, $7) "+
			"RETURNING "+campaignColumns,
		params.Name,
		params.Description,
		params.WorldStory,
		params.OwnerId,
		params.IsPublic,
		params.MaxPlayers,
		params.JoinCode,
	)

	return scanCampaign(row)
}

func (db *PgCampfireRepository) GetCampaignById(id int) (Campaign, error) {
	row := db.conn.QueryRow(
		"SELECT "+campaignColumns+" FROM campaigns WHERE id = $1 LIMIT 1",
		id,
	)
	return scanCampaign(row)
}

func (db *PgCampfireRepository) GetCampaignByJoinCode(code string) (Campaign, error) {
	row := db.conn.QueryRow(
		"SELECT "+campaignColumns+" FROM campaigns WHERE join_code = $1 LIMIT 1",
		code,
	)
	return scanCampaign(row)
}

// ListCampaigns returns campaigns the user owns or is an accepted member
// of, with membership aggregates for the campaign list view.
func (db *PgCampfireRepository) ListCampaigns(userId int) ([]Campaign, error) {
	query := `
		SELECT c.id, c.name, c.description, c.world_story, c.owner_id, c.is_public,
			c.max_players, c.join_code, c.is_archived, c.created_at, c.updated_at,
			(SELECT count(*) FROM campaign_requests r
				WHERE r.campaign_id = c.id AND r.status = 'ACCEPTED') AS players_count,
			(SELECT count(*) FROM campaign_requests r
				WHERE r.campaign_id = c.id AND r.status = 'PENDING') AS pending_requests_count,
			(SELECT r.status FROM campaign_requests r
				WHERE r.campaign_id = c.id AND r.user_id = $1) AS my_request_status
		FROM campaigns c
		WHERE c.owner_id = $1
			OR EXISTS (SELECT 1 FROM campaign_requests r
				WHERE r.campaign_id = c.id AND r.user_id = $1 AND r.status = 'ACCEPTED')
		ORDER BY c.created_at DESC, c.id DESC`

	rows, err := db.conn.Query(query, userId)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []Campaign
	for rows.Next() {
		var c Campaign
		err := rows.Scan(
			&c.Id,
			&c.Name,
			&c.Description,
			&c.WorldStory,
			&c.OwnerId,
			&c.IsPublic,
			&c.MaxPlayers,
			&c.JoinCode,
			&c.IsArchived,
			&c.CreatedAt,
			&c.UpdatedAt,
			&c.PlayersCount,
			&c.PendingRequestsCount,
			&c.MyRequestStatus,
		)
		if err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		campaigns = append(campaigns, c)
	}

	return campaigns, rows.Err()
}

// SearchPublicCampaigns lists open public campaigns, optionally narrowed
// by a case-insensitive substring match on name, description or world story.
func (db *PgCampfireRepository) SearchPublicCampaigns(query string) ([]Campaign, error) {
	q := `
		SELECT ` + campaignColumns + `,
			(SELECT count(*) FROM campaign_requests r
				WHERE r.campaign_id = campaigns.id AND r.status = 'ACCEPTED') AS players_count
		FROM campaigns
		WHERE is_public AND NOT is_archived
			AND ($1 = '' OR name ILIKE '%' || $1 || '%'
				OR description ILIKE '%' || $1 || '%'
				OR world_story ILIKE '%' || $1 || '%')
		ORDER BY name, id`

	rows, err := db.conn.Query(q, query)
	if err != nil {
		return nil, fmt.Errorf("search public campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []Campaign
	for rows.Next() {
		var c Campaign
		err := rows.Scan(
			&c.Id,
			&c.Name,
			&c.Description,
			&c.WorldStory,
			&c.OwnerId,
			&c.IsPublic,
			&c.MaxPlayers,
			&c.JoinCode,
			&c.IsArchived,
			&c.CreatedAt,
			&c.UpdatedAt,
			&c.PlayersCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		campaigns = append(campaigns, c)
	}

	return campaigns, rows.Err()
}

// ListCampaignPlayers returns the accepted members of a campaign with
// their characters.
func (db *PgCampfireRepository) ListCampaignPlayers(campaignId int) ([]CampaignPlayer, error) {
	query := `
		SELECT r.user_id, a.username, r.character_id, ch.name,
			coalesce(cl.name, ''), ch.level
		FROM campaign_requests r
		JOIN accounts a ON a.id = r.user_id
		JOIN characters ch ON ch.id = r.character_id
		LEFT JOIN classes cl ON cl.id = ch.class_id
		WHERE r.campaign_id = $1 AND r.status = 'ACCEPTED'
		ORDER BY r.decided_at, r.id`

	rows, err := db.conn.Query(query, campaignId)
	if err != nil {
		return nil, fmt.Errorf("list campaign players: %w", err)
	}
	defer rows.Close()

	var players []CampaignPlayer
	for rows.Next() {
		var p CampaignPlayer
		err := rows.Scan(
			&p.UserId,
			&p.Username,
			&p.CharacterId,
			&p.CharacterName,
			&p.ClassName,
			&p.Level,
		)
		if err != nil {
			return nil, fmt.Errorf("scan campaign player: %w", err)
		}
		players = append(players, p)
	}

	return players, rows.Err()
}

// UpdateCampaign applies a partial update. Shrinking max_players below
// the accepted player count fails with ErrMaxPlayersTooLow; the check
// runs with the campaign row locked so it cannot race an approval.
func (db *PgCampfireRepository) UpdateCampaign(params UpdateCampaignParams) (Campaign, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return Campaign{}, err
	}
	defer tx.Rollback()

	var ownerId int
	err = tx.QueryRow(
		"SELECT owner_id FROM campaigns WHERE id = $1 FOR UPDATE",
		params.CampaignId,
	).Scan(&ownerId)
	if err != nil {
		return Campaign{}, err
	}

	if params.MaxPlayers != nil {
		var accepted int
		err = tx.QueryRow(
			"SELECT count(*) FROM campaign_requests WHERE campaign_id = $1 AND status = 'ACCEPTED'",
			params.CampaignId,
		).Scan(&accepted)
		if err != nil {
			return Campaign{}, fmt.Errorf("count accepted requests: %w", err)
		}

		if *params.MaxPlayers < accepted {
			return Campaign{}, ErrMaxPlayersTooLow
		}
	}

	row := tx.QueryRow(
		"UPDATE campaigns SET "+
			"name = coalesce($2, name), "+
			"description = coalesce($3, description), "+
			"world_story = coalesce($4, world_story), "+
			"is_public = coalesce($5, is_public), "+
			"max_players = coalesce($6, max_players), "+
			"is_archived = coalesce($7, is_archived), "+
			"updated_at = now() "+
			"WHERE id = $1 "+
			"RETURNING "+campaignColumns,
		params.CampaignId,
		params.Name,
		params.Description,
		params.WorldStory,
		params.IsPublic,
		params.MaxPlayers,
		params.IsArchived,
	)

	c, err := scanCampaign(row)
	if err != nil {
		return Campaign{}, err
	}

	return c, tx.Commit()
}

func (db *PgCampfireRepository) DeleteCampaign(id int) error {
	_, err := db.conn.Exec("DELETE FROM campaigns WHERE id = $1", id)
	return err
}

package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

const joinRequestColumns = "id, campaign_id, user_id, character_id, status, created_at, decided_at"

func scanJoinRequest(row *sql.Row) (JoinRequest, error) {
	var r JoinRequest
	err := row.Scan(
		&r.Id,
		&r.CampaignId,
		&r.UserId,
		&r.CharacterId,
		&r.Status,
		&r.CreatedAt,
		&r.DecidedAt,
	)
	return r, err
}

// CreateJoinRequest inserts a PENDING request. The campaign row is
// locked for the duration so the seat count cannot race a concurrent
// approval. A second request for the same (campaign, user) pair fails
// with ErrDuplicateRequest regardless of the first one's status.
func (db *PgCampfireRepository) CreateJoinRequest(params CreateJoinRequestParams) (JoinRequest, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return JoinRequest{}, err
	}
	defer tx.Rollback()

	var (
		isArchived bool
		maxPlayers int
	)
	err = tx.QueryRow(
		"SELECT is_archived, max_players FROM campaigns WHERE id = $1 FOR UPDATE",
		params.CampaignId,
	).Scan(&isArchived, &maxPlayers)
	if err != nil {
		return JoinRequest{}, err
	}

	if isArchived {
		return JoinRequest{}, ErrCampaignArchived
	}

	var accepted int
	err = tx.QueryRow(
		"SELECT count(*) FROM campaign_requests WHERE campaign_id = $1 AND status = 'ACCEPTED'",
		params.CampaignId,
	).Scan(&accepted)
	if err != nil {
		return JoinRequest{}, fmt.Errorf("count accepted requests: %w", err)
	}

	if accepted >= maxPlayers {
		return JoinRequest{}, ErrCampaignFull
	}

	row := tx.QueryRow(
		"INSERT INTO campaign_requests (campaign_id, user_id, character_id) "+
			"VALUES ($1, $2, $3) "+
			"RETURNING "+joinRequestColumns,
		params.CampaignId,
		params.UserId,
		params.CharacterId,
	)

	req, err := scanJoinRequest(row)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return JoinRequest{}, ErrDuplicateRequest
		}
		return JoinRequest{}, err
	}

	return req, tx.Commit()
}

// AcceptJoinRequest transitions a PENDING request to ACCEPTED. If the
// acceptance fills the last seat, every other PENDING request for the
// campaign is rejected in the same transaction. Returns the number of
// requests swept that way. Lock order is campaign row first, then the
// request row, matching CreateJoinRequest and UpdateCampaign.
func (db *PgCampfireRepository) AcceptJoinRequest(requestId int) (JoinRequest, int, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return JoinRequest{}, 0, err
	}
	defer tx.Rollback()

	var campaignId int
	err = tx.QueryRow(
		"SELECT campaign_id FROM campaign_requests WHERE id = $1",
		requestId,
	).Scan(&campaignId)
	if err != nil {
		return JoinRequest{}, 0, err
	}

	var (
		isArchived bool
		maxPlayers int
	)
	err = tx.QueryRow(
		"SELECT is_archived, max_players FROM campaigns WHERE id = $1 FOR UPDATE",
		campaignId,
	).Scan(&isArchived, &maxPlayers)
	if err != nil {
		return JoinRequest{}, 0, err
	}

	if isArchived {
		return JoinRequest{}, 0, ErrCampaignArchived
	}

	var status string
	err = tx.QueryRow(
		"SELECT status FROM campaign_requests WHERE id = $1 FOR UPDATE",
		requestId,
	).Scan(&status)
	if err != nil {
		return JoinRequest{}, 0, err
	}

	if status != RequestStatusPending {
		return JoinRequest{}, 0, ErrRequestNotPending
	}

	var accepted int
	err = tx.QueryRow(
		"SELECT count(*) FROM campaign_requests WHERE campaign_id = $1 AND status = 'ACCEPTED'",
		campaignId,
	).Scan(&accepted)
	if err != nil {
		return JoinRequest{}, 0, fmt.Errorf("count accepted requests: %w", err)
	}

	if accepted >= maxPlayers {
		return JoinRequest{}, 0, ErrCampaignFull
	}

	row := tx.QueryRow(
		"UPDATE campaign_requests SET status = 'ACCEPTED', decided_at = now() "+
			"WHERE id = $1 "+
			"RETURNING "+joinRequestColumns,
		requestId,
	)

	req, err := scanJoinRequest(row)
	if err != nil {
		return JoinRequest{}, 0, err
	}

	var swept int64
	if accepted+1 >= maxPlayers {
		res, err := tx.Exec(
			"UPDATE campaign_requests SET status = 'REJECTED', decided_at = now() "+
				"WHERE campaign_id = $1 AND status = 'PENDING' AND id <> $2",
			campaignId,
			requestId,
		)
		if err != nil {
			return JoinRequest{}, 0, fmt.Errorf("reject leftover requests: %w", err)
		}

		swept, err = res.RowsAffected()
		if err != nil {
			return JoinRequest{}, 0, err
		}
	}

	return req, int(swept), tx.Commit()
}

// RejectJoinRequest transitions a PENDING request to REJECTED.
func (db *PgCampfireRepository) RejectJoinRequest(requestId int) (JoinRequest, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return JoinRequest{}, err
	}
	defer tx.Rollback()

	var status string
	err = tx.QueryRow(
		"SELECT status FROM campaign_requests WHERE id = $1 FOR UPDATE",
		requestId,
	).Scan(&status)
	if err != nil {
		return JoinRequest{}, err
	}

	if status != RequestStatusPending {
		return JoinRequest{}, ErrRequestNotPending
	}

	row := tx.QueryRow(
		"UPDATE campaign_requests SET status = 'REJECTED', decided_at = now() "+
			"WHERE id = $1 "+
			"RETURNING "+joinRequestColumns,
		requestId,
	)

	req, err := scanJoinRequest(row)
	if err != nil {
		return JoinRequest{}, err
	}

	return req, tx.Commit()
}

func (db *PgCampfireRepository) GetJoinRequestById(id int) (JoinRequest, error) {
	row := db.conn.QueryRow(
		"SELECT "+joinRequestColumns+" FROM campaign_requests WHERE id = $1 LIMIT 1",
		id,
	)
	return scanJoinRequest(row)
}

func (db *PgCampfireRepository) GetJoinRequestForUser(campaignId, userId int) (JoinRequest, error) {
	row := db.conn.QueryRow(
		"SELECT "+joinRequestColumns+" FROM campaign_requests "+
			"WHERE campaign_id = $1 AND user_id = $2 LIMIT 1",
		campaignId,
		userId,
	)
	return scanJoinRequest(row)
}

func (db *PgCampfireRepository) HasAcceptedRequest(campaignId, userId int) (bool, error) {
	var exists bool
	err := db.conn.QueryRow(
		"SELECT EXISTS (SELECT 1 FROM campaign_requests "+
			"WHERE campaign_id = $1 AND user_id = $2 AND status = 'ACCEPTED')",
		campaignId,
		userId,
	).Scan(&exists)
	return exists, err
}

func (db *PgCampfireRepository) CountAcceptedRequests(campaignId int) (int, error) {
	var count int
	err := db.conn.QueryRow(
		"SELECT count(*) FROM campaign_requests WHERE campaign_id = $1 AND status = 'ACCEPTED'",
		campaignId,
	).Scan(&count)
	return count, err
}

// ListJoinRequests lists the caller's outgoing requests or the requests
// against campaigns the caller owns, newest first.
func (db *PgCampfireRepository) ListJoinRequests(params ListJoinRequestsParams) ([]JoinRequest, error) {
	query := `
		SELECT r.id, r.campaign_id, r.user_id, r.character_id, r.status,
			r.created_at, r.decided_at,
			u.username, c.name, o.username, ch.name, coalesce(cl.name, '')
		FROM campaign_requests r
		JOIN campaigns c ON c.id = r.campaign_id
		JOIN accounts u ON u.id = r.user_id
		JOIN accounts o ON o.id = c.owner_id
		JOIN characters ch ON ch.id = r.character_id
		LEFT JOIN classes cl ON cl.id = ch.class_id
		WHERE ($1 = 0 OR r.user_id = $1)
			AND ($2 = 0 OR c.owner_id = $2)
			AND ($3 = 0 OR r.campaign_id = $3)
			AND ($4 = '' OR r.status = $4)
		ORDER BY r.created_at DESC, r.id DESC`

	rows, err := db.conn.Query(
		query,
		params.OutgoingUserId,
		params.IncomingOwnerId,
		params.CampaignId,
		params.Status,
	)
	if err != nil {
		return nil, fmt.Errorf("list join requests: %w", err)
	}
	defer rows.Close()

	var requests []JoinRequest
	for rows.Next() {
		var r JoinRequest
		err := rows.Scan(
			&r.Id,
			&r.CampaignId,
			&r.UserId,
			&r.CharacterId,
			&r.Status,
			&r.CreatedAt,
			&r.DecidedAt,
			&r.Username,
			&r.CampaignName,
			&r.CampaignOwnerName,
			&r.CharacterName,
			&r.CharacterClass,
		)
		if err != nil {
			return nil, fmt.Errorf("scan join request: %w", err)
		}
		requests = append(requests, r)
	}

	return requests, rows.Err()
}

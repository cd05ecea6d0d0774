package database

import "fmt"

// memberVisibleClause restricts rows to campaigns the viewer owns or is
// an accepted member of. The campaign alias must be "c" and the viewer
// placeholder $1.
const memberVisibleClause = `(c.owner_id = $1 OR EXISTS (
	SELECT 1 FROM campaign_requests r
	WHERE r.campaign_id = c.id AND r.user_id = $1 AND r.status = 'ACCEPTED'))`

func (db *PgCampfireRepository) CreateSession(params CreateSessionParams) (Session, error) {
	row := db.conn.QueryRow(
		"INSERT INTO sessions (campaign_id, number, date, description) "+
			"VALUES ($1, $2, $3, $4) "+
			"RETURNING id, campaign_id, number, date, description, created_at, updated_at",
		params.CampaignId,
		params.Number,
		params.Date,
		params.Description,
	)

	var s Session
	err := row.Scan(&s.Id, &s.CampaignId, &s.Number, &s.Date, &s.Description, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (db *PgCampfireRepository) GetSessionById(id int) (Session, error) {
	row := db.conn.QueryRow(
		"SELECT id, campaign_id, number, date, description, created_at, updated_at "+
			"FROM sessions WHERE id = $1 LIMIT 1",
		id,
	)

	var s Session
	err := row.Scan(&s.Id, &s.CampaignId, &s.Number, &s.Date, &s.Description, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// ListSessions returns sessions visible to the viewer, optionally
// narrowed to one campaign. Visibility is part of the query itself.
func (db *PgCampfireRepository) ListSessions(viewerId, campaignId int) ([]Session, error) {
	query := `
		SELECT s.id, s.campaign_id, s.number, s.date, s.description,
			s.created_at, s.updated_at
		FROM sessions s
		JOIN campaigns c ON c.id = s.campaign_id
		WHERE ($2 = 0 OR s.campaign_id = $2) AND ` + memberVisibleClause + `
		ORDER BY s.number, s.id`

	rows, err := db.conn.Query(query, viewerId, campaignId)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		err := rows.Scan(&s.Id, &s.CampaignId, &s.Number, &s.Date, &s.Description, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

func (db *PgCampfireRepository) UpdateSession(params UpdateSessionParams) (Session, error) {
	row := db.conn.QueryRow(
		"UPDATE sessions SET "+
			"number = coalesce($2, number), "+
			"date = coalesce($3, date), "+
			"description = coalesce($4, description), "+
			"updated_at = now() "+
			"WHERE id = $1 "+
			"RETURNING id, campaign_id, number, date, description, created_at, updated_at",
		params.SessionId,
		params.Number,
		params.Date,
		params.Description,
	)

	var s Session
	err := row.Scan(&s.Id, &s.CampaignId, &s.Number, &s.Date, &s.Description, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (db *PgCampfireRepository) DeleteSession(id int) error {
	_, err := db.conn.Exec("DELETE FROM sessions WHERE id = $1", id)
	return err
}

func (db *PgCampfireRepository) CreateDMNote(sessionId int, text string) (DMNote, error) {
	row := db.conn.QueryRow(
		"INSERT INTO dm_notes (session_id, text) VALUES ($1, $2) "+
			"RETURNING id, session_id, text, created_at, updated_at",
		sessionId,
		text,
	)

	var n DMNote
	err := row.Scan(&n.Id, &n.SessionId, &n.Text, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

func (db *PgCampfireRepository) GetDMNoteById(id int) (DMNote, error) {
	row := db.conn.QueryRow(
		"SELECT id, session_id, text, created_at, updated_at FROM dm_notes WHERE id = $1 LIMIT 1",
		id,
	)

	var n DMNote
	err := row.Scan(&n.Id, &n.SessionId, &n.Text, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

// ListDMNotes is owner-only: notes belonging to campaigns the viewer
// does not own are never returned.
func (db *PgCampfireRepository) ListDMNotes(viewerId, sessionId int) ([]DMNote, error) {
	query := `
		SELECT n.id, n.session_id, n.text, n.created_at, n.updated_at
		FROM dm_notes n
		JOIN sessions s ON s.id = n.session_id
		JOIN campaigns c ON c.id = s.campaign_id
		WHERE ($2 = 0 OR n.session_id = $2) AND c.owner_id = $1
		ORDER BY n.created_at, n.id`

	rows, err := db.conn.Query(query, viewerId, sessionId)
	if err != nil {
		return nil, fmt.Errorf("list dm notes: %w", err)
	}
	defer rows.Close()

	var notes []DMNote
	for rows.Next() {
		var n DMNote
		if err := rows.Scan(&n.Id, &n.SessionId, &n.Text, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan dm note: %w", err)
		}
		notes = append(notes, n)
	}

	return notes, rows.Err()
}

func (db *PgCampfireRepository) UpdateDMNote(id int, text string) (DMNote, error) {
	row := db.conn.QueryRow(
		"UPDATE dm_notes SET text = $2, updated_at = now() WHERE id = $1 "+
			"RETURNING id, session_id, text, created_at, updated_at",
		id,
		text,
	)

	var n DMNote
	err := row.Scan(&n.Id, &n.SessionId, &n.Text, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

func (db *PgCampfireRepository) DeleteDMNote(id int) error {
	_, err := db.conn.Exec("DELETE FROM dm_notes WHERE id = $1", id)
	return err
}

func (db *PgCampfireRepository) CreateCampaignNote(campaignId int, text string) (CampaignNote, error) {
	row := db.conn.QueryRow(
		"INSERT INTO campaign_notes (campaign_id, text) VALUES ($1, $2) "+
			"RETURNING id, campaign_id, text, created_at",
		campaignId,
		text,
	)

	var n CampaignNote
	err := row.Scan(&n.Id, &n.CampaignId, &n.Text, &n.CreatedAt)
	return n, err
}

func (db *PgCampfireRepository) GetCampaignNoteById(id int) (CampaignNote, error) {
	row := db.conn.QueryRow(
		"SELECT id, campaign_id, text, created_at FROM campaign_notes WHERE id = $1 LIMIT 1",
		id,
	)

	var n CampaignNote
	err := row.Scan(&n.Id, &n.CampaignId, &n.Text, &n.CreatedAt)
	return n, err
}

func (db *PgCampfireRepository) ListCampaignNotes(viewerId, campaignId int) ([]CampaignNote, error) {
	query := `
		SELECT n.id, n.campaign_id, n.text, n.created_at
		FROM campaign_notes n
		JOIN campaigns c ON c.id = n.campaign_id
		WHERE ($2 = 0 OR n.campaign_id = $2) AND c.owner_id = $1
		ORDER BY n.created_at, n.id`

	rows, err := db.conn.Query(query, viewerId, campaignId)
	if err != nil {
		return nil, fmt.Errorf("list campaign notes: %w", err)
	}
	defer rows.Close()

	var notes []CampaignNote
	for rows.Next() {
		var n CampaignNote
		if err := rows.Scan(&n.Id, &n.CampaignId, &n.Text, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan campaign note: %w", err)
		}
		notes = append(notes, n)
	}

	return notes, rows.Err()
}

func (db *PgCampfireRepository) UpdateCampaignNote(id int, text string) (CampaignNote, error) {
	row := db.conn.QueryRow(
		"UPDATE campaign_notes SET text = $2 WHERE id = $1 "+
			"RETURNING id, campaign_id, text, created_at",
		id,
		text,
	)

	var n CampaignNote
	err := row.Scan(&n.Id, &n.CampaignId, &n.Text, &n.CreatedAt)
	return n, err
}

func (db *PgCampfireRepository) DeleteCampaignNote(id int) error {
	_, err := db.conn.Exec("DELETE FROM campaign_notes WHERE id = $1", id)
	return err
}

func (db *PgCampfireRepository) CreateStoryline(params CreateStorylineParams) (Storyline, error) {
	row := db.conn.QueryRow(
		"INSERT INTO storylines (campaign_id, title, summary, sort_order) "+
			"VALUES ($1, $2, $3, $4) "+
			"RETURNING id, campaign_id, title, summary, sort_order",
		params.CampaignId,
		params.Title,
		params.Summary,
		params.Order,
	)

	var s Storyline
	err := row.Scan(&s.Id, &s.CampaignId, &s.Title, &s.Summary, &s.Order)
	return s, err
}

func (db *PgCampfireRepository) GetStorylineById(id int) (Storyline, error) {
	row := db.conn.QueryRow(
		"SELECT id, campaign_id, title, summary, sort_order FROM storylines WHERE id = $1 LIMIT 1",
		id,
	)

	var s Storyline
	err := row.Scan(&s.Id, &s.CampaignId, &s.Title, &s.Summary, &s.Order)
	return s, err
}

// ListStorylines is owner-only, ordered by the explicit sort key with
// id as tiebreaker.
func (db *PgCampfireRepository) ListStorylines(viewerId, campaignId int) ([]Storyline, error) {
	query := `
		SELECT s.id, s.campaign_id, s.title, s.summary, s.sort_order
		FROM storylines s
		JOIN campaigns c ON c.id = s.campaign_id
		WHERE ($2 = 0 OR s.campaign_id = $2) AND c.owner_id = $1
		ORDER BY s.sort_order, s.id`

	rows, err := db.conn.Query(query, viewerId, campaignId)
	if err != nil {
		return nil, fmt.Errorf("list storylines: %w", err)
	}
	defer rows.Close()

	var storylines []Storyline
	for rows.Next() {
		var s Storyline
		if err := rows.Scan(&s.Id, &s.CampaignId, &s.Title, &s.Summary, &s.Order); err != nil {
			return nil, fmt.Errorf("scan storyline: %w", err)
		}
		storylines = append(storylines, s)
	}

	return storylines, rows.Err()
}

func (db *PgCampfireRepository) UpdateStoryline(params UpdateStorylineParams) (Storyline, error) {
	row := db.conn.QueryRow(
		"UPDATE storylines SET "+
			"title = coalesce($2, title), "+
			"summary = coalesce($3, summary), "+
			"sort_order = coalesce($4, sort_order) "+
			"WHERE id = $1 "+
			"RETURNING id, campaign_id, title, summary, sort_order",
		params.StorylineId,
		params.Title,
		params.Summary,
		params.Order,
	)

	var s Storyline
	err := row.Scan(&s.Id, &s.CampaignId, &s.Title, &s.Summary, &s.Order)
	return s, err
}

func (db *PgCampfireRepository) DeleteStoryline(id int) error {
	_, err := db.conn.Exec("DELETE FROM storylines WHERE id = $1", id)
	return err
}

func (db *PgCampfireRepository) CreateStoryOutcome(params CreateStoryOutcomeParams) (StoryOutcome, error) {
	row := db.conn.QueryRow(
		"INSERT INTO story_outcomes (storyline_id, title, condition, description, sort_order) "+
			"VALUES ($1, $2, $3, $4, $5) "+
			"RETURNING id, storyline_id, title, condition, description, sort_order",
		params.StorylineId,
		params.Title,
		params.Condition,
		params.Description,
		params.Order,
	)

	var o StoryOutcome
	err := row.Scan(&o.Id, &o.StorylineId, &o.Title, &o.Condition, &o.Description, &o.Order)
	return o, err
}

func (db *PgCampfireRepository) GetStoryOutcomeById(id int) (StoryOutcome, error) {
	row := db.conn.QueryRow(
		"SELECT id, storyline_id, title, condition, description, sort_order "+
			"FROM story_outcomes WHERE id = $1 LIMIT 1",
		id,
	)

	var o StoryOutcome
	err := row.Scan(&o.Id, &o.StorylineId, &o.Title, &o.Condition, &o.Description, &o.Order)
	return o, err
}

func (db *PgCampfireRepository) ListStoryOutcomes(viewerId, storylineId int) ([]StoryOutcome, error) {
	query := `
		SELECT o.id, o.storyline_id, o.title, o.condition, o.description, o.sort_order
		FROM story_outcomes o
		JOIN storylines s ON s.id = o.storyline_id
		JOIN campaigns c ON c.id = s.campaign_id
		WHERE ($2 = 0 OR o.storyline_id = $2) AND c.owner_id = $1
		ORDER BY o.sort_order, o.id`

	rows, err := db.conn.Query(query, viewerId, storylineId)
	if err != nil {
		return nil, fmt.Errorf("list story outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []StoryOutcome
	for rows.Next() {
		var o StoryOutcome
		if err := rows.Scan(&o.Id, &o.StorylineId, &o.Title, &o.Condition, &o.Description, &o.Order); err != nil {
			return nil, fmt.Errorf("scan story outcome: %w", err)
		}
		outcomes = append(outcomes, o)
	}

	return outcomes, rows.Err()
}

func (db *PgCampfireRepository) UpdateStoryOutcome(params UpdateStoryOutcomeParams) (StoryOutcome, error) {
	row := db.conn.QueryRow(
		"UPDATE story_outcomes SET "+
			"title = coalesce($2, title), "+
			"condition = coalesce($3, condition), "+
			"description = coalesce($4, description), "+
			"sort_order = coalesce($5, sort_order) "+
			"WHERE id = $1 "+
			"RETURNING id, storyline_id, title, condition, description, sort_order",
		params.OutcomeId,
		params.Title,
		params.Condition,
		params.Description,
		params.Order,
	)

	var o StoryOutcome
	err := row.Scan(&o.Id, &o.StorylineId, &o.Title, &o.Condition, &o.Description, &o.Order)
	return o, err
}

func (db *PgCampfireRepository) DeleteStoryOutcome(id int) error {
	_, err := db.conn.Exec("DELETE FROM story_outcomes WHERE id = $1", id)
	return err
}

func (db *PgCampfireRepository) CreateChatMessage(campaignId, userId int, text string) (ChatMessage, error) {
	row := db.conn.QueryRow(
		"INSERT INTO chat_messages (campaign_id, user_id, text) VALUES ($1, $2, $3) "+
			"RETURNING id, campaign_id, user_id, text, created_at, "+
			"(SELECT username FROM accounts WHERE id = $2)",
		campaignId,
		userId,
		text,
	)

	var m ChatMessage
	err := row.Scan(&m.Id, &m.CampaignId, &m.UserId, &m.Text, &m.CreatedAt, &m.Username)
	return m, err
}

func (db *PgCampfireRepository) GetChatMessageById(id int) (ChatMessage, error) {
	row := db.conn.QueryRow(
		"SELECT m.id, m.campaign_id, m.user_id, m.text, m.created_at, a.username "+
			"FROM chat_messages m JOIN accounts a ON a.id = m.user_id "+
			"WHERE m.id = $1 LIMIT 1",
		id,
	)

	var m ChatMessage
	err := row.Scan(&m.Id, &m.CampaignId, &m.UserId, &m.Text, &m.CreatedAt, &m.Username)
	return m, err
}

// ListChatMessages is visible to the owner and accepted members,
// oldest first.
func (db *PgCampfireRepository) ListChatMessages(viewerId, campaignId int) ([]ChatMessage, error) {
	query := `
		SELECT m.id, m.campaign_id, m.user_id, m.text, m.created_at, a.username
		FROM chat_messages m
		JOIN campaigns c ON c.id = m.campaign_id
		JOIN accounts a ON a.id = m.user_id
		WHERE ($2 = 0 OR m.campaign_id = $2) AND ` + memberVisibleClause + `
		ORDER BY m.created_at, m.id`

	rows, err := db.conn.Query(query, viewerId, campaignId)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	defer rows.Close()

	var messages []ChatMessage
	for rows.Next() {
		var m ChatMessage
		if err := rows.Scan(&m.Id, &m.CampaignId, &m.UserId, &m.Text, &m.CreatedAt, &m.Username); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

func (db *PgCampfireRepository) DeleteChatMessage(id int) error {
	_, err := db.conn.Exec("DELETE FROM chat_messages WHERE id = $1", id)
	return err
}

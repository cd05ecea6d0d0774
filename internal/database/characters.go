package database

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

// characterFields lists every writable column of the characters table.
// characterValues must produce values in exactly this order.
var characterFields = []string{
	"owner_id", "name", "player_name", "class_id", "level", "race",
	"background", "alignment", "experience_points",
	"strength", "strength_mod", "dexterity", "dexterity_mod",
	"constitution", "constitution_mod", "intelligence", "intelligence_mod",
	"wisdom", "wisdom_mod", "charisma", "charisma_mod",
	"saving_throw_proficiencies", "skill_proficiencies",
	"max_hit_points", "current_hit_points", "temporary_hit_points",
	"armor_class", "initiative", "speed", "inspiration",
	"proficiency_bonus", "passive_perception",
	"hit_dice_total", "hit_dice_used", "hit_dice_type",
	"death_save_successes", "death_save_failures",
	"skills", "equipment", "treasure", "attacks", "other_proficiencies",
	"personality_traits", "ideals", "bonds", "flaws", "features_traits",
	"appearance", "backstory", "allies_organizations", "additional_features",
	"spellcasting_class", "spellcasting_ability", "spell_save_dc",
	"spell_attack_bonus", "spells_cantrips",
	"spell_slots_1_total", "spell_slots_1_used", "spells_level_1",
	"spell_slots_2_total", "spell_slots_2_used", "spells_level_2",
	"spell_slots_3_total", "spell_slots_3_used", "spells_level_3",
	"spell_slots_4_total", "spell_slots_4_used", "spells_level_4",
	"spell_slots_5_total", "spell_slots_5_used", "spells_level_5",
	"spell_slots_6_total", "spell_slots_6_used", "spells_level_6",
	"spell_slots_7_total", "spell_slots_7_used", "spells_level_7",
	"spell_slots_8_total", "spell_slots_8_used", "spells_level_8",
	"spell_slots_9_total", "spell_slots_9_used", "spells_level_9",
}

func characterValues(ch Character) []any {
	vals := []any{
		ch.OwnerId, ch.Name, ch.PlayerName, ch.ClassId, ch.Level, ch.Race,
		ch.Background, ch.Alignment, ch.ExperiencePoints,
		ch.Strength, ch.StrengthMod, ch.Dexterity, ch.DexterityMod,
		ch.Constitution, ch.ConstitutionMod, ch.Intelligence, ch.IntelligenceMod,
		ch.Wisdom, ch.WisdomMod, ch.Charisma, ch.CharismaMod,
		pq.Array(ch.SavingThrowProficiencies), pq.Array(ch.SkillProficiencies),
		ch.MaxHitPoints, ch.CurrentHitPoints, ch.TemporaryHitPoints,
		ch.ArmorClass, ch.Initiative, ch.Speed, ch.Inspiration,
		ch.ProficiencyBonus, ch.PassivePerception,
		ch.HitDiceTotal, ch.HitDiceUsed, ch.HitDiceType,
		ch.DeathSaveSuccesses, ch.DeathSaveFailures,
		ch.Skills, ch.Equipment, ch.Treasure, ch.Attacks, ch.OtherProficiencies,
		ch.PersonalityTraits, ch.Ideals, ch.Bonds, ch.Flaws, ch.FeaturesTraits,
		ch.Appearance, ch.Backstory, ch.AlliesOrganizations, ch.AdditionalFeatures,
		ch.SpellcastingClass, ch.SpellcastingAbility, ch.SpellSaveDC,
		ch.SpellAttackBonus, ch.SpellsCantrips,
	}
	for _, slot := range ch.SpellSlots {
		vals = append(vals, slot.Total, slot.Used, slot.Spells)
	}
	return vals
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCharacter(row rowScanner) (Character, error) {
	var ch Character
	dests := []any{
		&ch.Id,
		&ch.OwnerId, &ch.Name, &ch.PlayerName, &ch.ClassId, &ch.Level, &ch.Race,
		&ch.Background, &ch.Alignment, &ch.ExperiencePoints,
		&ch.Strength, &ch.StrengthMod, &ch.Dexterity, &ch.DexterityMod,
		&ch.Constitution, &ch.ConstitutionMod, &ch.Intelligence, &ch.IntelligenceMod,
		&ch.Wisdom, &ch.WisdomMod, &ch.Charisma, &ch.CharismaMod,
		pq.Array(&ch.SavingThrowProficiencies), pq.Array(&ch.SkillProficiencies),
		&ch.MaxHitPoints, &ch.CurrentHitPoints, &ch.TemporaryHitPoints,
		&ch.ArmorClass, &ch.Initiative, &ch.Speed, &ch.Inspiration,
		&ch.ProficiencyBonus, &ch.PassivePerception,
		&ch.HitDiceTotal, &ch.HitDiceUsed, &ch.HitDiceType,
		&ch.DeathSaveSuccesses, &ch.DeathSaveFailures,
		&ch.Skills, &ch.Equipment, &ch.Treasure, &ch.Attacks, &ch.OtherProficiencies,
		&ch.PersonalityTraits, &ch.Ideals, &ch.Bonds, &ch.Flaws, &ch.FeaturesTraits,
		&ch.Appearance, &ch.Backstory, &ch.AlliesOrganizations, &ch.AdditionalFeatures,
		&ch.SpellcastingClass, &ch.SpellcastingAbility, &ch.SpellSaveDC,
		&ch.SpellAttackBonus, &ch.SpellsCantrips,
	}
	for i := range ch.SpellSlots {
		dests = append(dests,
			&ch.SpellSlots[i].Total,
			&ch.SpellSlots[i].Used,
			&ch.SpellSlots[i].Spells,
		)
	}
	dests = append(dests, &ch.CreatedAt, &ch.UpdatedAt, &ch.ClassName)

	return ch, row.Scan(dests...)
}

func characterSelectColumns() string {
	cols := make([]string, 0, len(characterFields)+4)
	cols = append(cols, "ch.id")
	for _, f := range characterFields {
		cols = append(cols, "ch."+f)
	}
	cols = append(cols, "ch.created_at", "ch.updated_at", "coalesce(cl.name, '')")
	return strings.Join(cols, ", ")
}

func placeholderList(n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = "$" + strconv.Itoa(i+1)
	}
	return strings.Join(ps, ", ")
}

func (db *PgCampfireRepository) CreateCharacter(ch Character) (Character, error) {
	vals := characterValues(ch)
	query := fmt.Sprintf(
		"INSERT INTO characters (%s) VALUES (%s) RETURNING id",
		strings.Join(characterFields, ", "),
		placeholderList(len(vals)),
	)

	var id int
	if err := db.conn.QueryRow(query, vals...).Scan(&id); err != nil {
		return Character{}, fmt.Errorf("create character: %w", err)
	}

	return db.GetCharacterById(id)
}

func (db *PgCampfireRepository) GetCharacterById(id int) (Character, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM characters ch LEFT JOIN classes cl ON cl.id = ch.class_id "+
			"WHERE ch.id = $1 LIMIT 1",
		characterSelectColumns(),
	)
	return scanCharacter(db.conn.QueryRow(query, id))
}

func (db *PgCampfireRepository) ListCharacters(ownerId int) ([]Character, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM characters ch LEFT JOIN classes cl ON cl.id = ch.class_id "+
			"WHERE ch.owner_id = $1 ORDER BY ch.name, ch.id",
		characterSelectColumns(),
	)

	rows, err := db.conn.Query(query, ownerId)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	defer rows.Close()

	var characters []Character
	for rows.Next() {
		ch, err := scanCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan character: %w", err)
		}
		characters = append(characters, ch)
	}

	return characters, rows.Err()
}

// UpdateCharacter writes the full row back. Handlers load the current
// sheet and merge the patch before calling this.
func (db *PgCampfireRepository) UpdateCharacter(ch Character) (Character, error) {
	vals := characterValues(ch)
	assignments := make([]string, len(characterFields))
	for i, f := range characterFields {
		assignments[i] = fmt.Sprintf("%s = $%d", f, i+2)
	}

	query := fmt.Sprintf(
		"UPDATE characters SET %s, updated_at = now() WHERE id = $1",
		strings.Join(assignments, ", "),
	)

	args := append([]any{ch.Id}, vals...)
	res, err := db.conn.Exec(query, args...)
	if err != nil {
		return Character{}, fmt.Errorf("update character: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Character{}, fmt.Errorf("character %d not found", ch.Id)
	}

	return db.GetCharacterById(ch.Id)
}

func (db *PgCampfireRepository) DeleteCharacter(id int) error {
	_, err := db.conn.Exec("DELETE FROM characters WHERE id = $1", id)
	return err
}

func (db *PgCampfireRepository) ListClasses() ([]Class, error) {
	rows, err := db.conn.Query("SELECT id, name, hit_die FROM classes ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	defer rows.Close()

	var classes []Class
	for rows.Next() {
		var c Class
		if err := rows.Scan(&c.Id, &c.Name, &c.HitDie); err != nil {
			return nil, fmt.Errorf("scan class: %w", err)
		}
		classes = append(classes, c)
	}

	return classes, rows.Err()
}

func (db *PgCampfireRepository) GetClassById(id int) (Class, error) {
	var c Class
	err := db.conn.QueryRow(
		"SELECT id, name, hit_die FROM classes WHERE id = $1 LIMIT 1",
		id,
	).Scan(&c.Id, &c.Name, &c.HitDie)
	return c, err
}

// GetOrCreateClassByName resolves a class by exact name, creating it if
// absent. The upsert keeps concurrent creates of the same name from
// erroring on the unique constraint.
func (db *PgCampfireRepository) GetOrCreateClassByName(name string) (Class, error) {
	var c Class
	err := db.conn.QueryRow(
		"INSERT INTO classes (name) VALUES ($1) "+
			"ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name "+
			"RETURNING id, name, hit_die",
		name,
	).Scan(&c.Id, &c.Name, &c.HitDie)
	return c, err
}

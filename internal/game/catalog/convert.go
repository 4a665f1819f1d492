package catalog

import (
	"bytes"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/dmeverett/arbiter/internal/game/cost"
	"github.com/dmeverett/arbiter/internal/game/entity"
	"github.com/dmeverett/arbiter/internal/game/interaction"
	"github.com/dmeverett/arbiter/internal/game/rules"
)

// maxRequirementDepth bounds authored requirement trees; the data model
// requires them finite and acyclic, and YAML anchors can smuggle in cycles.
const maxRequirementDepth = 16

// indefiniteLength is the sentinel a duration component uses instead of a
// numeric length.
const indefiniteLength = "indefinite"

// Shadow structs mirror the authored YAML shape; conversion into domain
// types validates as it goes. Unknown fields are rejected at decode time.

type yamlSkill struct {
	Base            int            `yaml:"base"`
	Specializations map[string]int `yaml:"specializations"`
}

type yamlAttribute struct {
	Base   int                  `yaml:"base"`
	Skills map[string]yamlSkill `yaml:"skills"`
}

type yamlStack struct {
	Item     string      `yaml:"item"`
	Quantity int         `yaml:"quantity"`
	Equipped bool        `yaml:"equipped"`
	Contents []yamlStack `yaml:"contents"`
}

type yamlPosition struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

type yamlDuration struct {
	Unit   string `yaml:"unit"`
	Length string `yaml:"length"`
}

type yamlTrigger struct {
	Unit    string       `yaml:"unit"`
	Effects []yamlEffect `yaml:"effects"`
}

type yamlEntityFile struct {
	Name        string `yaml:"name"`
	Supertype   string `yaml:"supertype"`
	Type        string `yaml:"type"`
	Subtype     string `yaml:"subtype"`
	Description string `yaml:"description"`

	MaxHP int  `yaml:"max_hp"`
	CurHP *int `yaml:"cur_hp"`
	MaxMP int  `yaml:"max_mp"`
	CurMP *int `yaml:"cur_mp"`
	MaxFP int  `yaml:"max_fp"`
	CurFP *int `yaml:"cur_fp"`

	Attributes map[string]yamlAttribute `yaml:"attributes"`
	Inventory  []yamlStack              `yaml:"inventory"`
	Tags       map[string]string        `yaml:"tags"`
	Position   *yamlPosition            `yaml:"position"`

	Durations []yamlDuration `yaml:"durations"`
	Triggers  []yamlTrigger  `yaml:"triggers"`
}

type yamlMagnitude struct {
	Source string `yaml:"source"`
	Stat   string `yaml:"stat"`
	Value  *int   `yaml:"value"`
	PreMod int    `yaml:"premod"`
	Kind   string `yaml:"kind"`
}

type yamlResistance struct {
	Kind    string `yaml:"kind"`
	Value   int    `yaml:"value"`
	Against string `yaml:"against"`
}

type yamlItemQuantity struct {
	Item     string `yaml:"item"`
	Quantity int    `yaml:"quantity"`
}

type yamlEffect struct {
	Kind       string             `yaml:"kind"`
	Magnitude  *yamlMagnitude     `yaml:"magnitude"`
	Field      string             `yaml:"field"`
	Restore    bool               `yaml:"restore"`
	Status     string             `yaml:"status"`
	Op         string             `yaml:"op"`
	Items      []yamlItemQuantity `yaml:"items"`
	Resistance *yamlResistance    `yaml:"resistance"`
}

type yamlRelation struct {
	Number *int   `yaml:"number"`
	Text   string `yaml:"text"`
}

type yamlDifficulty struct {
	Kind  string `yaml:"kind"`
	Value int    `yaml:"value"`
	Actor string `yaml:"actor"`
	Stat  string `yaml:"stat"`
}

type yamlRequirement struct {
	Kind       string             `yaml:"kind"`
	Actor      string             `yaml:"actor"`
	Stat       string             `yaml:"stat"`
	Difficulty *yamlDifficulty    `yaml:"difficulty"`
	Field      string             `yaml:"field"`
	Relation   *yamlRelation      `yaml:"relation"`
	All        []*yamlRequirement `yaml:"all"`
	Any        []*yamlRequirement `yaml:"any"`
	Not        *yamlRequirement   `yaml:"not"`
}

type yamlCostEntry struct {
	Resource string `yaml:"resource"`
	Item     string `yaml:"item"`
	Amount   int    `yaml:"amount"`
}

type yamlInteractionFile struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
	Range       int    `yaml:"range"`
	Source      string `yaml:"source"`

	UserEffects   []yamlEffect `yaml:"user_effects"`
	TargetEffects []yamlEffect `yaml:"target_effects"`
	SelfEffects   []yamlEffect `yaml:"self_effects"`

	UserRequirements   []*yamlRequirement `yaml:"user_requirements"`
	TargetRequirements []*yamlRequirement `yaml:"target_requirements"`
	Proficiency        *yamlRequirement   `yaml:"proficiency"`

	Cost []yamlCostEntry `yaml:"cost"`
}

func decodeEntity(data []byte) (*entity.Entity, error) {
	var file yamlEntityFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, err
	}
	return convertEntity(file)
}

func convertEntity(file yamlEntityFile) (*entity.Entity, error) {
	if file.Name == "" {
		return nil, fmt.Errorf("entity has no name")
	}
	ent := &entity.Entity{
		Name:        file.Name,
		Supertype:   file.Supertype,
		Type:        file.Type,
		Subtype:     file.Subtype,
		Description: file.Description,
		MaxHP:       file.MaxHP,
		MaxMP:       file.MaxMP,
		MaxFP:       file.MaxFP,
		CurHP:       valueOr(file.CurHP, file.MaxHP),
		CurMP:       valueOr(file.CurMP, file.MaxMP),
		CurFP:       valueOr(file.CurFP, file.MaxFP),
		Tags:        file.Tags,
	}
	for _, v := range []struct {
		field    string
		cur, max int
	}{
		{"cur_hp", ent.CurHP, ent.MaxHP},
		{"cur_mp", ent.CurMP, ent.MaxMP},
		{"cur_fp", ent.CurFP, ent.MaxFP},
	} {
		if v.cur < 0 || v.cur > v.max {
			return nil, fmt.Errorf("entity %q: %s must be within [0, %d], got %d",
				file.Name, v.field, v.max, v.cur)
		}
	}
	if file.Position != nil {
		ent.Positioned = true
		ent.X, ent.Y = file.Position.X, file.Position.Y
	}

	for attrName, attr := range file.Attributes {
		ent.Ratings.SetAttribute(attrName, attr.Base)
		for skillName, skill := range attr.Skills {
			ent.Ratings.SetSkill(attrName, skillName, skill.Base)
			for specName, base := range skill.Specializations {
				ent.Ratings.SetSpecialization(attrName, skillName, specName, base)
			}
		}
	}

	ent.Inventory = convertStacks(file.Inventory)

	for i, d := range file.Durations {
		dc, err := convertDuration(d)
		if err != nil {
			return nil, fmt.Errorf("entity %q duration %d: %w", file.Name, i, err)
		}
		ent.Durations = append(ent.Durations, dc)
	}
	for i, t := range file.Triggers {
		unit := entity.Frequency(t.Unit)
		if !unit.Valid() {
			return nil, fmt.Errorf("entity %q trigger %d: unknown frequency %q", file.Name, i, t.Unit)
		}
		effects, err := convertEffects(t.Effects)
		if err != nil {
			return nil, fmt.Errorf("entity %q trigger %d: %w", file.Name, i, err)
		}
		ent.Triggers = append(ent.Triggers, &entity.Trigger{Unit: unit, SelfEffects: effects})
	}
	return ent, nil
}

func valueOr(v *int, fallback int) int {
	if v != nil {
		return *v
	}
	return fallback
}

func convertStacks(stacks []yamlStack) []*entity.ItemStack {
	if stacks == nil {
		return nil
	}
	out := make([]*entity.ItemStack, len(stacks))
	for i, s := range stacks {
		out[i] = &entity.ItemStack{
			Item:     s.Item,
			Quantity: s.Quantity,
			Equipped: s.Equipped,
			Contents: convertStacks(s.Contents),
		}
	}
	return out
}

func convertDuration(d yamlDuration) (entity.DurationComponent, error) {
	unit := entity.Frequency(d.Unit)
	if !unit.Valid() {
		return entity.DurationComponent{}, fmt.Errorf("unknown frequency %q", d.Unit)
	}
	if d.Length == indefiniteLength {
		return entity.DurationComponent{Unit: unit, Indefinite: true}, nil
	}
	length, err := strconv.Atoi(d.Length)
	if err != nil || length <= 0 {
		return entity.DurationComponent{}, fmt.Errorf("length must be a positive integer or %q, got %q", indefiniteLength, d.Length)
	}
	return entity.DurationComponent{Unit: unit, Length: length}, nil
}

func decodeInteraction(data []byte) (*interaction.Interaction, string, error) {
	var file yamlInteractionFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, "", err
	}
	if file.Name == "" {
		return nil, "", fmt.Errorf("interaction has no name")
	}
	if file.Range < 0 {
		return nil, "", fmt.Errorf("interaction %q: range must be >= 0, got %d", file.Name, file.Range)
	}

	itx := &interaction.Interaction{
		Name:        file.Name,
		Type:        file.Type,
		Description: file.Description,
		Range:       file.Range,
	}

	var err error
	if itx.UserEffects, err = convertEffects(file.UserEffects); err != nil {
		return nil, "", fmt.Errorf("interaction %q user effects: %w", file.Name, err)
	}
	if itx.TargetEffects, err = convertEffects(file.TargetEffects); err != nil {
		return nil, "", fmt.Errorf("interaction %q target effects: %w", file.Name, err)
	}
	if itx.SelfEffects, err = convertEffects(file.SelfEffects); err != nil {
		return nil, "", fmt.Errorf("interaction %q self effects: %w", file.Name, err)
	}
	if itx.UserRequirements, err = convertRequirements(file.UserRequirements); err != nil {
		return nil, "", fmt.Errorf("interaction %q user requirements: %w", file.Name, err)
	}
	if itx.TargetRequirements, err = convertRequirements(file.TargetRequirements); err != nil {
		return nil, "", fmt.Errorf("interaction %q target requirements: %w", file.Name, err)
	}
	if file.Proficiency != nil {
		if itx.Proficiency, err = convertRequirement(file.Proficiency, 0); err != nil {
			return nil, "", fmt.Errorf("interaction %q proficiency: %w", file.Name, err)
		}
	}
	for i, e := range file.Cost {
		entry, err := convertCostEntry(e)
		if err != nil {
			return nil, "", fmt.Errorf("interaction %q cost entry %d: %w", file.Name, i, err)
		}
		itx.Cost.Entries = append(itx.Cost.Entries, entry)
	}
	return itx, file.Source, nil
}

func convertCostEntry(e yamlCostEntry) (cost.Entry, error) {
	if (e.Resource == "") == (e.Item == "") {
		return cost.Entry{}, fmt.Errorf("exactly one of resource and item must be set")
	}
	if e.Resource != "" && !entity.IsResourceField(e.Resource) {
		return cost.Entry{}, fmt.Errorf("unknown resource %q", e.Resource)
	}
	if e.Amount <= 0 {
		return cost.Entry{}, fmt.Errorf("amount must be > 0, got %d", e.Amount)
	}
	return cost.Entry{Resource: e.Resource, Item: e.Item, Amount: e.Amount}, nil
}

func convertEffects(effects []yamlEffect) ([]entity.Effect, error) {
	if effects == nil {
		return nil, nil
	}
	out := make([]entity.Effect, len(effects))
	for i, e := range effects {
		eff, err := convertEffect(e)
		if err != nil {
			return nil, fmt.Errorf("effect %d: %w", i, err)
		}
		out[i] = eff
	}
	return out, nil
}

// effectKind resolves the effect kind. Explicit kinds win; when a node
// carries several aspects and no kind, the canonical precedence applies:
// status > damage/heal > apply > inventory.
func effectKind(e yamlEffect) (entity.EffectKind, error) {
	switch e.Kind {
	case "damage":
		return entity.EffectDamage, nil
	case "heal":
		return entity.EffectHeal, nil
	case "apply":
		return entity.EffectApplyPath, nil
	case "status":
		return entity.EffectStatusInject, nil
	case "inventory":
		return entity.EffectInventoryOp, nil
	case "":
	default:
		return entity.EffectInvalid, fmt.Errorf("unknown effect kind %q", e.Kind)
	}
	switch {
	case e.Status != "":
		return entity.EffectStatusInject, nil
	case e.Field != "":
		return entity.EffectApplyPath, nil
	case e.Magnitude != nil:
		return entity.EffectDamage, nil
	case len(e.Items) > 0:
		return entity.EffectInventoryOp, nil
	}
	return entity.EffectInvalid, fmt.Errorf("effect declares no kind and no recognizable aspect")
}

func convertEffect(e yamlEffect) (entity.Effect, error) {
	kind, err := effectKind(e)
	if err != nil {
		return entity.Effect{}, err
	}
	eff := entity.Effect{Kind: kind}

	switch kind {
	case entity.EffectDamage, entity.EffectHeal:
		if e.Magnitude == nil {
			return entity.Effect{}, fmt.Errorf("%s effect needs a magnitude", kind)
		}
		if eff.Magnitude, err = convertMagnitude(*e.Magnitude); err != nil {
			return entity.Effect{}, err
		}
	case entity.EffectApplyPath:
		if e.Field == "" {
			return entity.Effect{}, fmt.Errorf("apply effect needs a field")
		}
		if !entity.IsResourceField(e.Field) {
			return entity.Effect{}, fmt.Errorf("apply effect field %q is not a mutable resource", e.Field)
		}
		if e.Magnitude == nil {
			return entity.Effect{}, fmt.Errorf("apply effect needs a magnitude")
		}
		eff.Field = e.Field
		eff.Restore = e.Restore
		if eff.Magnitude, err = convertMagnitude(*e.Magnitude); err != nil {
			return entity.Effect{}, err
		}
	case entity.EffectStatusInject:
		if e.Status == "" {
			return entity.Effect{}, fmt.Errorf("status effect needs a template name")
		}
		eff.Status = e.Status
	case entity.EffectInventoryOp:
		switch e.Op {
		case "add", "":
			eff.Op = entity.InventoryAdd
		case "remove":
			eff.Op = entity.InventoryRemove
		default:
			return entity.Effect{}, fmt.Errorf("unknown inventory op %q", e.Op)
		}
		if len(e.Items) == 0 {
			return entity.Effect{}, fmt.Errorf("inventory effect needs items")
		}
		for _, iq := range e.Items {
			if iq.Item == "" || iq.Quantity <= 0 {
				return entity.Effect{}, fmt.Errorf("inventory item needs a name and a positive quantity")
			}
			eff.Items = append(eff.Items, entity.ItemQuantity{Item: iq.Item, Quantity: iq.Quantity})
		}
	}

	if e.Resistance != nil {
		r, err := convertResistance(*e.Resistance)
		if err != nil {
			return entity.Effect{}, err
		}
		eff.Resistance = &r
	}
	return eff, nil
}

func convertMagnitude(m yamlMagnitude) (entity.Magnitude, error) {
	out := entity.Magnitude{PreMod: m.PreMod}

	switch m.Source {
	case "", "user":
		out.Source = entity.RoleUser
	case "target":
		out.Source = entity.RoleTarget
	case "self":
		out.Source = entity.RoleSelf
	default:
		return entity.Magnitude{}, fmt.Errorf("unknown magnitude source %q", m.Source)
	}

	switch {
	case m.Value != nil && m.Stat != "":
		return entity.Magnitude{}, fmt.Errorf("magnitude sets both stat and value")
	case m.Value != nil:
		out.IsLiteral = true
		out.Literal = *m.Value
	case m.Stat != "":
		path, err := entity.ParseStatPath(m.Stat)
		if err != nil {
			return entity.Magnitude{}, err
		}
		out.Path = path
	default:
		return entity.Magnitude{}, fmt.Errorf("magnitude needs a stat or a value")
	}

	switch m.Kind {
	case "", "static":
		out.Kind = entity.MagnitudeStatic
	case "roll":
		out.Kind = entity.MagnitudeRoll
	default:
		return entity.Magnitude{}, fmt.Errorf("unknown magnitude kind %q", m.Kind)
	}
	return out, nil
}

func convertResistance(r yamlResistance) (entity.Resistance, error) {
	switch r.Kind {
	case "", "static":
		return entity.Resistance{Kind: entity.ResistanceStatic, Value: r.Value}, nil
	case "opposed":
		if r.Against == "" {
			return entity.Resistance{}, fmt.Errorf("opposed resistance needs an against stat")
		}
		path, err := entity.ParseStatPath(r.Against)
		if err != nil {
			return entity.Resistance{}, err
		}
		return entity.Resistance{Kind: entity.ResistanceOpposed, Against: path}, nil
	}
	return entity.Resistance{}, fmt.Errorf("unknown resistance kind %q", r.Kind)
}

func convertRequirements(reqs []*yamlRequirement) ([]*rules.Requirement, error) {
	if reqs == nil {
		return nil, nil
	}
	out := make([]*rules.Requirement, len(reqs))
	for i, r := range reqs {
		converted, err := convertRequirement(r, 0)
		if err != nil {
			return nil, fmt.Errorf("requirement %d: %w", i, err)
		}
		out[i] = converted
	}
	return out, nil
}

// requirementKind resolves the node kind. Explicit kinds win; otherwise the
// populated combinator or leaf fields decide.
func requirementKind(r *yamlRequirement) (rules.RequirementKind, error) {
	switch r.Kind {
	case "test":
		return rules.RequirementTest, nil
	case "property":
		return rules.RequirementProperty, nil
	case "and":
		return rules.RequirementAnd, nil
	case "or":
		return rules.RequirementOr, nil
	case "not":
		return rules.RequirementNot, nil
	case "":
	default:
		return rules.RequirementInvalid, fmt.Errorf("unknown requirement kind %q", r.Kind)
	}
	switch {
	case r.All != nil:
		return rules.RequirementAnd, nil
	case r.Any != nil:
		return rules.RequirementOr, nil
	case r.Not != nil:
		return rules.RequirementNot, nil
	case r.Stat != "":
		return rules.RequirementTest, nil
	case r.Field != "":
		return rules.RequirementProperty, nil
	}
	return rules.RequirementInvalid, fmt.Errorf("requirement declares no kind and no recognizable shape")
}

func convertRequirement(r *yamlRequirement, depth int) (*rules.Requirement, error) {
	if depth > maxRequirementDepth {
		return nil, fmt.Errorf("requirement tree exceeds depth %d", maxRequirementDepth)
	}
	kind, err := requirementKind(r)
	if err != nil {
		return nil, err
	}
	out := &rules.Requirement{Kind: kind}

	actor, err := convertActor(r.Actor)
	if err != nil {
		return nil, err
	}
	out.Actor = actor

	switch kind {
	case rules.RequirementTest:
		if r.Stat == "" {
			return nil, fmt.Errorf("test requirement needs a stat")
		}
		if out.Stat, err = entity.ParseStatPath(r.Stat); err != nil {
			return nil, err
		}
		if out.Difficulty, err = convertDifficulty(r.Difficulty); err != nil {
			return nil, err
		}
	case rules.RequirementProperty:
		if r.Field == "" {
			return nil, fmt.Errorf("property requirement needs a field")
		}
		out.Field = r.Field
		out.Relation = convertRelation(r.Relation)
	case rules.RequirementAnd:
		if out.Children, err = convertChildren(r.All, depth); err != nil {
			return nil, err
		}
	case rules.RequirementOr:
		if out.Children, err = convertChildren(r.Any, depth); err != nil {
			return nil, err
		}
	case rules.RequirementNot:
		if r.Not == nil {
			return nil, fmt.Errorf("not requirement needs a child")
		}
		if out.Child, err = convertRequirement(r.Not, depth+1); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func convertChildren(children []*yamlRequirement, depth int) ([]*rules.Requirement, error) {
	out := make([]*rules.Requirement, len(children))
	for i, c := range children {
		converted, err := convertRequirement(c, depth+1)
		if err != nil {
			return nil, fmt.Errorf("child %d: %w", i, err)
		}
		out[i] = converted
	}
	return out, nil
}

func convertActor(actor string) (entity.Role, error) {
	switch actor {
	case "", "user":
		return entity.RoleUser, nil
	case "target":
		return entity.RoleTarget, nil
	case "self":
		return entity.RoleSelf, nil
	}
	return "", fmt.Errorf("unknown actor %q", actor)
}

func convertDifficulty(d *yamlDifficulty) (rules.Difficulty, error) {
	if d == nil {
		return rules.Difficulty{Kind: rules.DifficultyStatic}, nil
	}
	switch d.Kind {
	case "", "static":
		return rules.Difficulty{Kind: rules.DifficultyStatic, Value: d.Value}, nil
	case "roll":
		if d.Stat == "" {
			return rules.Difficulty{}, fmt.Errorf("roll difficulty needs a stat")
		}
		path, err := entity.ParseStatPath(d.Stat)
		if err != nil {
			return rules.Difficulty{}, err
		}
		actor, err := convertActor(d.Actor)
		if err != nil {
			return rules.Difficulty{}, err
		}
		if d.Actor == "" {
			actor = entity.RoleTarget
		}
		return rules.Difficulty{Kind: rules.DifficultyRoll, Actor: actor, Stat: path}, nil
	case "opposed":
		return rules.Difficulty{Kind: rules.DifficultyOpposed}, nil
	}
	return rules.Difficulty{}, fmt.Errorf("unknown difficulty kind %q", d.Kind)
}

func convertRelation(r *yamlRelation) rules.Relation {
	if r == nil {
		return rules.Relation{Kind: rules.RelationTruthy}
	}
	if r.Number != nil {
		return rules.Relation{Kind: rules.RelationNumeric, Number: *r.Number}
	}
	if r.Text != "" {
		return rules.Relation{Kind: rules.RelationText, Text: r.Text}
	}
	return rules.Relation{Kind: rules.RelationTruthy}
}

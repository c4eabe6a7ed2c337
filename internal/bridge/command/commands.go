// Package command provides the bridge command table, registry and line parser.
package command

// Categories group commands on the lines of the help text, in display order.
const (
	CategoryQuery     = "query"
	CategorySession   = "session"
	CategoryInput     = "input"
	CategoryStats     = "stats"
	CategoryCreation  = "creation"
	CategoryMovement  = "movement"
	CategoryInteract  = "interact"
	CategoryWorld     = "world"
	CategoryCombat    = "combat"
	CategoryDialogue  = "dialogue"
	CategoryInventory = "inventory"
	CategoryWorldMap  = "worldmap"
	CategorySystem    = "system"
)

// categoryOrder is the order categories appear in the help text.
var categoryOrder = []string{
	CategoryQuery,
	CategorySession,
	CategoryInput,
	CategoryStats,
	CategoryCreation,
	CategoryMovement,
	CategoryInteract,
	CategoryWorld,
	CategoryCombat,
	CategoryDialogue,
	CategoryInventory,
	CategoryWorldMap,
	CategorySystem,
}

// Command defines one bridge command.
type Command struct {
	// Name is the canonical, lowercase command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage is the name followed by its argument placeholders.
	Usage string
	// Category places the command on a help line.
	Category string
}

// BuiltinCommands returns every command the dispatcher understands, in help order.
func BuiltinCommands() []Command {
	return []Command{
		{Name: "state", Usage: "state", Category: CategoryQuery},
		{Name: "look", Usage: "look", Category: CategoryQuery},
		{Name: "help", Aliases: []string{"?"}, Usage: "help", Category: CategoryQuery},
		{Name: "debug_objects", Usage: "debug_objects", Category: CategoryQuery},
		{Name: "debug_nearby", Usage: "debug_nearby", Category: CategoryQuery},

		{Name: "new_game", Usage: "new_game", Category: CategorySession},
		{Name: "load_game", Usage: "load_game", Category: CategorySession},
		{Name: "exit", Aliases: []string{"quit"}, Usage: "exit", Category: CategorySession},

		{Name: "key", Usage: "key <code|name>", Category: CategoryInput},

		{Name: "stat_inc", Usage: "stat_inc <stat>", Category: CategoryStats},
		{Name: "stat_dec", Usage: "stat_dec <stat>", Category: CategoryStats},

		{Name: "tag_skill", Usage: "tag_skill <skill_name>", Category: CategoryCreation},
		{Name: "trait_select", Usage: "trait_select <trait_name_or_index>", Category: CategoryCreation},
		{Name: "set_name", Usage: "set_name <name>", Category: CategoryCreation},
		{Name: "done", Usage: "done", Category: CategoryCreation},

		{Name: "move", Usage: "move <direction>", Category: CategoryMovement},
		{Name: "move_to", Usage: "move_to <tile>", Category: CategoryMovement},
		{Name: "goto", Usage: "goto <object_id_or_tile>", Category: CategoryMovement},
		{Name: "enter", Usage: "enter", Category: CategoryMovement},
		{Name: "scan_exits", Usage: "scan_exits", Category: CategoryMovement},

		{Name: "interact", Usage: "interact <object_id>", Category: CategoryInteract},
		{Name: "talk", Usage: "talk <npc_id>", Category: CategoryInteract},
		{Name: "pickup", Usage: "pickup <object_id>", Category: CategoryInteract},

		{Name: "use_skill", Usage: "use_skill <skill_name> <target_id>", Category: CategoryWorld},
		{Name: "wait", Usage: "wait <hours>", Category: CategoryWorld},

		{Name: "attack", Usage: "attack <target_id> [body_part]", Category: CategoryCombat},
		{Name: "end_turn", Usage: "end_turn", Category: CategoryCombat},
		{Name: "reload", Usage: "reload", Category: CategoryCombat},
		{Name: "change_weapon", Usage: "change_weapon", Category: CategoryCombat},
		{Name: "flee", Usage: "flee", Category: CategoryCombat},

		{Name: "say", Usage: "say <option_number>", Category: CategoryDialogue},
		{Name: "barter", Usage: "barter", Category: CategoryDialogue},
		{Name: "end", Usage: "end", Category: CategoryDialogue},

		{Name: "inventory", Aliases: []string{"inv"}, Usage: "inventory", Category: CategoryInventory},
		{Name: "equip", Usage: "equip <item_id> <slot>", Category: CategoryInventory},
		{Name: "unequip", Usage: "unequip <slot>", Category: CategoryInventory},
		{Name: "use", Usage: "use <item_id>", Category: CategoryInventory},
		{Name: "drop", Usage: "drop <item_id>", Category: CategoryInventory},
		{Name: "examine", Usage: "examine <item_id>", Category: CategoryInventory},

		{Name: "worldmap", Usage: "worldmap", Category: CategoryWorldMap},
		{Name: "travel", Usage: "travel <location_name>", Category: CategoryWorldMap},
		{Name: "cancel", Usage: "cancel", Category: CategoryWorldMap},

		{Name: "save", Usage: "save <slot>", Category: CategorySystem},
		{Name: "pipboy", Usage: "pipboy", Category: CategorySystem},
		{Name: "character", Usage: "character", Category: CategorySystem},
		{Name: "automap", Usage: "automap", Category: CategorySystem},
		{Name: "sneak", Usage: "sneak", Category: CategorySystem},
	}
}

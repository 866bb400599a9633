package tilegrid

// Mode はグリッドが選択結果を親へ通知するタイミングを決めます。
type Mode int

const (
	// ModePlayer は Submit が呼ばれたときだけ通知します。
	ModePlayer Mode = iota
	// ModeAdmin はトグルのたびに通知します (フォームの下書きへ即時反映)。
	ModeAdmin
)

// Grid は1枚の画像を 3x3 に切り出して表示するウィジェットの状態です。
type Grid struct {
	ImageURL          string
	TargetDescription string
	Mode              Mode
	OnChange          func(tiles []int)

	selection Selection
}

func NewGrid(imageURL, description string, mode Mode, initial []int, onChange func([]int)) *Grid {
	return &Grid{
		ImageURL:          imageURL,
		TargetDescription: description,
		Mode:              mode,
		OnChange:          onChange,
		selection:         NewSelection(initial...),
	}
}

// Prompt は見出しの文言です。
func (g *Grid) Prompt() string {
	if g.Mode == ModeAdmin {
		return "Select the tiles that contain:"
	}
	return "Select all squares that contain:"
}

func (g *Grid) Toggle(i int) error {
	if _, err := g.selection.Toggle(i); err != nil {
		return err
	}
	if g.Mode == ModeAdmin && g.OnChange != nil {
		g.OnChange(g.selection.Tiles())
	}
	return nil
}

// Submit はプレイヤーモードで現在の選択を通知します。管理モードでは何もしません。
func (g *Grid) Submit() []int {
	tiles := g.selection.Tiles()
	if g.Mode == ModePlayer && g.OnChange != nil {
		g.OnChange(tiles)
	}
	return tiles
}

func (g *Grid) Selection() Selection {
	return g.selection
}

// Reset は選択をすべて外します。
func (g *Grid) Reset() {
	g.selection = Selection{}
}

// Tiles は表示用に 9 枚分の切り出し位置を返します。
func (g *Grid) Tiles() []Tile {
	tiles := make([]Tile, 0, TileCount)
	for i := 0; i < TileCount; i++ {
		t, _ := Crop(i)
		tiles = append(tiles, t)
	}
	return tiles
}

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"tile_captcha/internal/admin"
	"tile_captcha/internal/config"
	"tile_captcha/internal/model"
	"tile_captcha/internal/player"
	"tile_captcha/internal/service"
	"tile_captcha/internal/tilegrid"
)

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

func (e *env) printNotices(notices []admin.Notice) {
	for _, n := range notices {
		fmt.Fprintf(e.stdout, "[%s] %s\n", n.Level, n.Message)
	}
}

func (e *env) list(ctx context.Context, args []string) error {
	fs := newFlagSet("list", e.stdout)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	puzzles, err := e.api.ListPuzzles(ctx)
	if err != nil {
		return err
	}
	if len(puzzles) == 0 {
		fmt.Fprintln(e.stdout, "no puzzles")
		return nil
	}
	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDAY\tTILES\tTARGET\tIMAGE")
	for _, p := range puzzles {
		fmt.Fprintf(tw, "%d\t%s\t%v\t%s\t%s\n", p.ID, weekdayName(p.Weekday), p.CorrectTiles, p.TargetDescription, p.ImageURL)
	}
	return tw.Flush()
}

func (e *env) get(ctx context.Context, args []string) error {
	fs := newFlagSet("get", e.stdout)
	id := fs.Int("id", 0, "puzzle id")
	weekday := fs.Int("weekday", -1, "weekday (0=Sunday .. 6=Saturday)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	var (
		p   *model.PuzzleResponse
		err error
	)
	switch {
	case *id > 0:
		p, err = e.api.GetPuzzle(ctx, *id)
	case *weekday >= 0:
		p, err = e.api.GetPuzzleByWeekday(ctx, *weekday)
	default:
		fmt.Fprintln(e.stdout, "get: -id or -weekday is required")
		return errUsage
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(e.stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return err
	}
	fmt.Fprint(e.stdout, tilegrid.Render(tilegrid.NewSelection(p.CorrectTiles...)))
	return nil
}

// set は管理画面と同じ編集フローで曜日のパズルを作成/更新します。
func (e *env) set(ctx context.Context, args []string) error {
	fs := newFlagSet("set", e.stdout)
	weekday := fs.Int("weekday", -1, "weekday (0=Sunday .. 6=Saturday)")
	image := fs.String("image", "", "image URL")
	file := fs.String("file", "", "image file to upload instead of -image")
	desc := fs.String("desc", "", "target description")
	tiles := fs.String("tiles", "", "correct tiles, comma separated (e.g. 0,4,8)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *weekday < 0 {
		fmt.Fprintln(e.stdout, "set: -weekday is required")
		return errUsage
	}

	ed := admin.NewEditor(e.api, 0)
	defer func() { e.printNotices(ed.Notices()) }()

	if err := ed.Load(ctx); err != nil {
		return err
	}
	if err := ed.SelectWeekday(*weekday); err != nil {
		return err
	}
	e.logger.Debug("editing", "weekday", weekdayName(*weekday), "state", ed.State())

	if *image != "" {
		if err := ed.SetImageURL(*image); err != nil {
			return err
		}
	}
	if *file != "" {
		f, size, contentType, err := openImage(*file)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := ed.ChooseFile(ctx, filepath.Base(*file), size, contentType, f); err != nil {
			return err
		}
	}
	if *desc != "" {
		if err := ed.SetDescription(*desc); err != nil {
			return err
		}
	}
	if *tiles != "" {
		want, err := parseTiles(*tiles)
		if err != nil {
			fmt.Fprintln(e.stdout, "set:", err)
			return errUsage
		}
		if err := selectExactly(ed, want); err != nil {
			return err
		}
	}

	fmt.Fprint(e.stdout, tilegrid.Render(ed.Grid().Selection()))
	return ed.Save(ctx)
}

// selectExactly は差分だけトグルしてグリッドの選択を want に揃えます。
func selectExactly(ed *admin.Editor, want []int) error {
	target := tilegrid.NewSelection(want...)
	for i := 0; i < tilegrid.TileCount; i++ {
		if ed.Grid().Selection().Contains(i) != target.Contains(i) {
			if err := ed.ToggleTile(i); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *env) upload(ctx context.Context, args []string) error {
	fs := newFlagSet("upload", e.stdout)
	file := fs.String("file", "", "image file")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *file == "" {
		fmt.Fprintln(e.stdout, "upload: -file is required")
		return errUsage
	}
	f, _, contentType, err := openImage(*file)
	if err != nil {
		return err
	}
	defer f.Close()

	resp, err := e.api.Upload(ctx, filepath.Base(*file), contentType, f)
	if err != nil {
		return err
	}
	fmt.Fprintln(e.stdout, resp.URL)
	return nil
}

func (e *env) delete(ctx context.Context, args []string) error {
	fs := newFlagSet("delete", e.stdout)
	id := fs.Int("id", 0, "puzzle id")
	yes := fs.Bool("yes", false, "skip confirmation")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *id <= 0 {
		fmt.Fprintln(e.stdout, "delete: -id is required")
		return errUsage
	}

	ed := admin.NewEditor(e.api, 0)
	defer func() { e.printNotices(ed.Notices()) }()
	if err := ed.Load(ctx); err != nil {
		return err
	}

	in := bufio.NewScanner(e.stdin)
	confirm := func(p model.PuzzleResponse) bool {
		if *yes {
			return true
		}
		fmt.Fprintf(e.stdout, "Delete the %s puzzle (%q)? [y/N]: ", weekdayName(p.Weekday), p.TargetDescription)
		if !in.Scan() {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(in.Text()))
		return answer == "y" || answer == "yes"
	}
	return ed.Delete(ctx, *id, confirm)
}

// play は標準入力からタイル番号を読み、プレイヤー画面と同じ流れで回答します。
func (e *env) play(ctx context.Context, args []string) error {
	fs := newFlagSet("play", e.stdout)
	weekday := fs.Int("weekday", -1, "play as if today were this weekday")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	now := e.now
	if *weekday >= 0 {
		if *weekday > 6 {
			fmt.Fprintln(e.stdout, "play: -weekday must be between 0 and 6")
			return errUsage
		}
		offset := *weekday - int(e.now().Weekday())
		now = func() time.Time { return e.now().AddDate(0, 0, offset) }
	}

	s := player.NewSession(e.api, now)
	err := s.Load(ctx)
	e.printNotices(s.Notices())
	if s.State() == player.StateNoPuzzle {
		fmt.Fprintln(e.stdout, s.Message())
		return err
	}

	p := s.Puzzle()
	fmt.Fprintln(e.stdout, "Image:", p.ImageURL)
	if s.IsFallback() {
		e.logger.Debug("no puzzle for today, showing another day", "weekday", weekdayName(p.Weekday))
	}

	in := bufio.NewScanner(e.stdin)
	for {
		fmt.Fprintln(e.stdout, s.Message())
		fmt.Fprint(e.stdout, tilegrid.Render(s.Grid().Selection()))
		fmt.Fprint(e.stdout, "tile (0-8), v=verify, r=reset, q=quit> ")
		if !in.Scan() {
			fmt.Fprintln(e.stdout)
			return in.Err()
		}

		switch cmd := strings.TrimSpace(in.Text()); cmd {
		case "":
		case "q":
			return nil
		case "r":
			s.Grid().Reset()
		case "v":
			ok, err := s.Verify()
			if err != nil {
				return err
			}
			e.printNotices(s.Notices())
			if ok {
				if o := s.Overlay(); o != nil {
					fmt.Fprintln(e.stdout, o.Message)
				}
				fmt.Fprintf(e.stdout, "attempts: %d\n", s.Attempts())
				return nil
			}
		default:
			i, err := strconv.Atoi(cmd)
			if err != nil {
				fmt.Fprintf(e.stdout, "unknown input %q\n", cmd)
				continue
			}
			if err := s.Toggle(i); err != nil {
				fmt.Fprintln(e.stdout, err)
			}
		}
	}
}

// token はサーバーと同じ秘密鍵で管理者用トークンを発行します。サーバーには接続しません。
func (e *env) token(ctx context.Context, args []string) error {
	fs := newFlagSet("token", e.stdout)
	secret := fs.String("secret", os.Getenv("APP_AUTH_SECRET_KEY"), "HS256 secret (auth.secret_key)")
	subject := fs.String("sub", "admin", "token subject")
	ttl := fs.Duration("ttl", config.DefaultTokenTTL, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	cfg := config.Default()
	cfg.Auth.SecretKey = *secret
	cfg.Auth.TokenTTL = *ttl
	token, err := service.NewAuthService(&cfg, e.now).IssueAdminToken(ctx, *subject)
	if err != nil {
		return err
	}
	fmt.Fprintln(e.stdout, token)
	return nil
}

func parseTiles(s string) ([]int, error) {
	var tiles []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		i, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid tile %q", part)
		}
		tiles = append(tiles, i)
	}
	if err := tilegrid.Validate(tiles); err != nil {
		return nil, err
	}
	return tiles, nil
}

// openImage はファイルを開き、サイズと先頭512バイトから判定した Content-Type を返します。
func openImage(path string) (*os.File, int64, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, "", err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, "", err
	}
	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		f.Close()
		return nil, 0, "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, 0, "", err
	}
	return f, info.Size(), http.DetectContentType(head[:n]), nil
}

func weekdayName(w int) string {
	if w < 0 || w >= len(admin.Weekdays) {
		return strconv.Itoa(w)
	}
	return admin.Weekdays[w]
}

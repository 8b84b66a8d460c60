// Simultaneous exercises the weak spot of the catalog's update design:
// per-field UPDATE statements interleaving with concurrent updaters and
// VACUUM INTO snapshots. It verifies that snapshots stay internally
// consistent (integrity_check) while updates hammer the same song ids.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/kawabatas/band-catalog/internal/domain/model"
	sqlitedriver "github.com/kawabatas/band-catalog/internal/infra/datastore/sqlite"
	_ "modernc.org/sqlite"
)

const (
	dbPath       = "./tmp/sim_catalog.sqlite"
	backupPath   = "./tmp/sim_catalog-backup.sqlite"
	updaters     = 4  // 並列アップデーター数
	songsPerBand = 25 // 初期投入する曲数
	testDuration = 10 * time.Second
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func strptr(s string) *string { return &s }

func seedSongs(ctx context.Context, songs *sqlitedriver.SongRepo) ([]int64, error) {
	ids := make([]int64, 0, songsPerBand)
	for i := 0; i < songsPerBand; i++ {
		rec, err := songs.Create(ctx, model.SongDraft{
			Title: fmt.Sprintf("song-%02d", i),
			Band:  "Queen",
		})
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return nil, fmt.Errorf("seed: band missing")
		}
		var id int64
		if _, err := fmt.Sscanf(rec["id"], "%d", &id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func updater(ctx context.Context, id int, songs *sqlitedriver.SongRepo, ids []int64, wg *sync.WaitGroup) {
	defer wg.Done()

	seq := 0
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		seq++
		target := ids[rand.Intn(len(ids))]
		patch := model.SongPatch{
			Lyrics: strptr(fmt.Sprintf("u%d-%d", id, seq)),
		}
		if seq%3 == 0 {
			patch.Author = strptr(fmt.Sprintf("author-u%d", id))
		}
		if _, err := songs.Update(ctx, target, patch); err != nil {
			if sqlitedriver.IsBusyErr(err) {
				time.Sleep(time.Duration(10+rand.Intn(20)) * time.Millisecond)
				continue
			}
			log.Printf("[updater %d] update err: %v", id, err)
		}
		// 書き込みペース
		time.Sleep(time.Duration(rand.Intn(15)) * time.Millisecond)
	}
}

func backupOnce(ctx context.Context, dbPath, path string) error {
	// VACUUM INTO は出力先が既に存在すると失敗するため、.tmp に出力してから置換する
	tmp := path + ".tmp"
	_ = os.Remove(tmp)
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	var lastErr error
	for i := 0; i < 3; i++ {
		if err := sqlitedriver.SnapshotTo(ctx, dbPath, tmp); err != nil {
			lastErr = err
			if sqlitedriver.IsBusyErr(err) {
				time.Sleep(time.Duration(50*(i+1)) * time.Millisecond)
				continue
			}
			return err
		}
		_ = os.Remove(path)
		if err := os.Rename(tmp, path); err != nil {
			_ = os.Remove(tmp)
			return err
		}
		return nil
	}
	return lastErr
}

func integrityCheck(path string) (string, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return "", err
	}
	defer db.Close()

	var res string
	if err := db.QueryRow(`PRAGMA integrity_check;`).Scan(&res); err != nil {
		return "", err
	}
	return res, nil
}

// countSongs: バックアップ側でも行数とNULL混入を確認する
func countSongs(path string) (total, torn int64, err error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return 0, 0, err
	}
	defer db.Close()
	if err := db.QueryRow(`SELECT COUNT(*) FROM songs`).Scan(&total); err != nil {
		return 0, 0, err
	}
	// 部分更新はあっても、行そのものが欠けたり NULL になってはいけない
	if err := db.QueryRow(`SELECT COUNT(*) FROM songs WHERE title IS NULL OR band IS NULL OR updated_at IS NULL`).Scan(&torn); err != nil {
		return 0, 0, err
	}
	return total, torn, nil
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	_ = os.Remove(dbPath)
	_ = os.MkdirAll(filepath.Dir(dbPath), 0755)

	db, err := sqlitedriver.OpenAndInit(context.Background(), dbPath)
	must(err)
	defer db.Close()
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)

	bands := sqlitedriver.NewBandRepo(db)
	songs := sqlitedriver.NewSongRepo(db, bands)

	ids, err := seedSongs(context.Background(), songs)
	must(err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(updaters)
	for i := 0; i < updaters; i++ {
		go updater(ctx, i+1, songs, ids, &wg)
	}

	// バックアップループ
	passed := true
	done := time.After(testDuration)
loop:
	for {
		select {
		case <-done:
			break loop
		case <-time.After(2 * time.Second):
			start := time.Now()
			if err := backupOnce(ctx, dbPath, backupPath); err != nil {
				passed = false
				log.Printf("[backup] ERR: %v", err)
				continue
			}
			ic, _ := integrityCheck(backupPath)
			total, torn, cerr := countSongs(backupPath)
			if cerr != nil || ic != "ok" || torn != 0 || total != int64(len(ids)) {
				passed = false
			}
			log.Printf("[backup] OK in %v  songs=%d torn=%d integrity=%s", time.Since(start), total, torn, ic)
		}
	}

	stop()
	wg.Wait()

	// 終了前に最終バックアップ
	log.Println("[backup] final...")
	must(backupOnce(context.Background(), dbPath, backupPath))
	ic, _ := integrityCheck(backupPath)
	total, torn, _ := countSongs(backupPath)
	if ic != "ok" || torn != 0 || total != int64(len(ids)) {
		passed = false
	}
	log.Printf("[final] songs=%d torn=%d integrity=%s", total, torn, ic)

	if passed {
		log.Println("RESULT: PASS (snapshots stay consistent under concurrent updates)")
	} else {
		log.Println("RESULT: FAIL")
	}
	log.Println("done.")
}

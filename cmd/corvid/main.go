// Command corvid is a command line front end for the move generator and
// the static evaluator: perft runs, legal move listings, and evaluation
// of arbitrary FEN positions, optionally memoized in a BadgerDB store.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pkg/profile"
	"github.com/schollz/progressbar/v3"

	"github.com/corvidchess/corvid/internal/board"
	"github.com/corvidchess/corvid/internal/eval"
	"github.com/corvidchess/corvid/internal/nnue"
	"github.com/corvidchess/corvid/internal/store"
)

var (
	fenFlag     = flag.String("fen", board.StartFEN, "position to operate on")
	perftDepth  = flag.Int("perft", 0, "run perft to the given depth")
	divideFlag  = flag.Bool("divide", false, "with -perft, print per-move node counts")
	evalFlag    = flag.Bool("eval", false, "print the static evaluation")
	traceFlag   = flag.Bool("trace", false, "print the evaluation breakdown")
	movesFlag   = flag.Bool("moves", false, "list the legal moves")
	dbFlag      = flag.String("db", "", "directory of the persistent eval store")
	profileFlag = flag.Bool("profile", false, "write a CPU profile to the working directory")
)

func main() {
	flag.Parse()
	log.SetFlags(0)

	if *profileFlag {
		defer profile.Start(profile.ProfilePath(".")).Stop()
	}

	pos, err := board.ParseFEN(*fenFlag)
	if err != nil {
		log.Fatalf("corvid: %v", err)
	}

	ran := false
	if *perftDepth > 0 {
		runPerft(pos, *perftDepth, *divideFlag)
		ran = true
	}
	if *movesFlag {
		listMoves(pos)
		ran = true
	}
	if *evalFlag {
		evaluate(pos, *dbFlag)
		ran = true
	}
	if *traceFlag {
		fmt.Print(eval.Trace(pos, nnue.NewNetworks()))
		ran = true
	}

	if !ran {
		fmt.Println(pos)
		flag.Usage()
		os.Exit(2)
	}
}

// runPerft counts leaf nodes move by move from the root, so deep runs
// can show progress and -divide output comes for free.
func runPerft(pos *board.Position, depth int, divide bool) {
	ml := board.NewMoveList(pos, board.Legal)

	var bar *progressbar.ProgressBar
	if depth >= 5 && !divide {
		bar = progressbar.Default(int64(ml.Len()), fmt.Sprintf("perft %d", depth))
	}

	var total uint64
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		undo := pos.MakeMove(m)
		nodes := board.Perft(pos, depth-1)
		pos.UnmakeMove(m, undo)

		total += nodes
		if divide {
			fmt.Printf("%s: %d\n", m, nodes)
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	fmt.Printf("perft(%d) = %d\n", depth, total)
}

func listMoves(pos *board.Position) {
	ml := board.NewMoveList(pos, board.Legal)
	for i := 0; i < ml.Len(); i++ {
		fmt.Println(ml.Get(i))
	}
	fmt.Printf("%d legal moves\n", ml.Len())
}

// evaluate prints the static evaluation, going through the persistent
// store first when one is configured.
func evaluate(pos *board.Position, dbDir string) {
	if pos.InCheck() {
		log.Fatal("corvid: cannot evaluate a position in check")
	}

	var db *store.Store
	if dbDir != "" {
		var err error
		db, err = store.Open(dbDir)
		if err != nil {
			log.Fatalf("corvid: open store: %v", err)
		}
		defer db.Close()

		if rec, found, err := db.Get(pos.Hash); err != nil {
			log.Fatalf("corvid: read store: %v", err)
		} else if found {
			fmt.Printf("evaluation %+d (stored %s)\n", rec.Score, rec.Updated.Format("2006-01-02 15:04:05"))
			return
		}
	}

	networks := nnue.NewNetworks()
	stack := nnue.NewAccumulatorStack(networks)
	caches := nnue.NewCaches(networks)
	v := eval.Evaluate(networks, pos, stack, caches, eval.ValueZero)

	fmt.Printf("evaluation %+d\n", v)

	if db != nil {
		legal := uint64(board.NewMoveList(pos, board.Legal).Len())
		if err := db.Put(pos.Hash, store.Record{Score: v, Nodes: legal}); err != nil {
			log.Fatalf("corvid: write store: %v", err)
		}
	}
}

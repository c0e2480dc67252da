package main

import (
	"fmt"
	"os"

	"github.com/avoss/ridgedb"
)

func main() {
	dir, err := os.MkdirTemp("", "ridgedb")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	db, err := ridgedb.Open(dir, nil, ridgedb.DefaultOptions())
	if err != nil {
		panic(err)
	}
	defer db.Close()

	const T = uint64(1_000_000_000_000)
	if err := db.PutRow("u:1", []ridgedb.Item{
		{Column: "email", Value: "a@x", TimestampMS: T, HasTimestamp: true},
	}, ""); err != nil {
		panic(err)
	}

	row, err := db.GetRow("u:1", ridgedb.GetRowOptions{})
	if err != nil {
		panic(err)
	}
	for col, versions := range row {
		for _, v := range versions {
			fmt.Printf("%s[%d] = %v\n", col, v.TimestampMS, v.Value)
		}
	}
}

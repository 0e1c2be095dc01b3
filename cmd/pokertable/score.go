package main

import (
	"fmt"

	"github.com/lox/pokertable/poker"
)

// ScoreCmd evaluates a hand given as card names.
type ScoreCmd struct {
	Cards []string `kong:"arg,required,help='Cards to score, e.g. As Ks Qs Js Ts'"`
}

func (c *ScoreCmd) Run() error {
	var hand poker.Hand
	for _, name := range c.Cards {
		card, err := poker.ParseCard(name)
		if err != nil {
			return err
		}
		if hand.HasCard(card) {
			return fmt.Errorf("duplicate card %q", name)
		}
		hand.AddCard(card)
	}

	score, err := poker.ScoreHand(hand)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", hand)
	fmt.Printf("score: %d (%s)\n", score, score.Category())
	return nil
}

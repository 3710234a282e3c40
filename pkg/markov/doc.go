/*
Package markov builds a first-order lexeme adjacency model from a text corpus
and generates semi-random text from it.

A corpus is read as whitespace-delimited chunks, each split into lexemes
(words, hyphen or apostrophe joined word pairs, ellipses and single
punctuation marks). Every lexeme is stored once and mapped to the list of
lexemes observed right after it, repeats included, so a uniform draw over that
list follows the corpus frequencies.

Generation starts from a sentinel lexeme (by default ".") and keeps sampling
"next given current" until more lexemes than a soft limit have been emitted
and the sentinel comes up again. The soft limit is a minimum, not a maximum.

	g := markov.NewGenerator(markov.NewDefaultTokenizer())
	if err := g.Train(ctx, corpus); err != nil {
		return err
	}
	text, err := g.Generate(ctx, markov.WithSoftLimit(500))
*/
package markov

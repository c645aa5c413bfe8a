package movegen

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// FENStartPos is the standard chess starting position.
const FENStartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ErrInvalidFEN is wrapped by every ParseFEN error.
var ErrInvalidFEN = errors.New("invalid FEN")

func pieceFromChar(c byte) Piece {
	switch c {
	case 'P':
		return WhitePawn
	case 'N':
		return WhiteKnight
	case 'B':
		return WhiteBishop
	case 'R':
		return WhiteRook
	case 'Q':
		return WhiteQueen
	case 'K':
		return WhiteKing
	case 'p':
		return BlackPawn
	case 'n':
		return BlackKnight
	case 'b':
		return BlackBishop
	case 'r':
		return BlackRook
	case 'q':
		return BlackQueen
	case 'k':
		return BlackKing
	}
	return NoPiece
}

func charFromPiece(p Piece) byte {
	white := "?PNBRQK"
	black := "?pnbrqk"
	t := typeOf(p)
	if t < 1 || t > 6 {
		return '?'
	}
	if colorOf(p) == Black {
		return black[t]
	}
	return white[t]
}

// ParseFEN builds a Board from a FEN record. The four trailing fields
// default per convention when absent: "- -" for castling and en passant,
// 0 and 1 for the clocks. The en-passant field is validated against the
// side to move and then normalized: a target no enemy pawn can capture on
// is stored as NoSquare.
func ParseFEN(fen string) (*Board, error) {
	fields := strings.Fields(fen)
	if len(fields) < 2 || len(fields) > 6 {
		return nil, fmt.Errorf("%w: expected 2 to 6 fields, got %d", ErrInvalidFEN, len(fields))
	}

	b := &Board{enPassantSquare: NoSquare, fullmoveNumber: 1}

	// Piece placement, rank 8 first.
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("%w: expected 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}
	for r := 0; r < 8; r++ {
		rank := 7 - r
		file := 0
		for i := 0; i < len(ranks[r]); i++ {
			c := ranks[r][i]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			p := pieceFromChar(c)
			if p == NoPiece {
				return nil, fmt.Errorf("%w: bad piece character %q", ErrInvalidFEN, c)
			}
			if file > 7 {
				return nil, fmt.Errorf("%w: rank %d overflows", ErrInvalidFEN, rank+1)
			}
			if typeOf(p) == 1 && (rank == 0 || rank == 7) {
				return nil, fmt.Errorf("%w: pawn on rank %d", ErrInvalidFEN, rank+1)
			}
			b.setPiece(Square(rank*8+file), p)
			file++
		}
		if file != 8 {
			return nil, fmt.Errorf("%w: rank %d has %d files", ErrInvalidFEN, rank+1, file)
		}
	}
	if popcount(b.kings[White]) != 1 || popcount(b.kings[Black]) != 1 {
		return nil, fmt.Errorf("%w: each side needs exactly one king", ErrInvalidFEN)
	}

	switch fields[1] {
	case "w":
		b.sideToMove = White
	case "b":
		b.sideToMove = Black
	default:
		return nil, fmt.Errorf("%w: bad side to move %q", ErrInvalidFEN, fields[1])
	}

	if len(fields) > 2 && fields[2] != "-" {
		for i := 0; i < len(fields[2]); i++ {
			switch fields[2][i] {
			case 'K':
				b.castlingRights |= CastlingWhiteK
			case 'Q':
				b.castlingRights |= CastlingWhiteQ
			case 'k':
				b.castlingRights |= CastlingBlackK
			case 'q':
				b.castlingRights |= CastlingBlackQ
			default:
				return nil, fmt.Errorf("%w: bad castling character %q", ErrInvalidFEN, fields[2][i])
			}
		}
	}

	if len(fields) > 3 && fields[3] != "-" {
		ep, err := algebraicToSquare(fields[3])
		if err != nil {
			return nil, fmt.Errorf("%w: bad en-passant square %q", ErrInvalidFEN, fields[3])
		}
		wantRank := 5
		if b.sideToMove == Black {
			wantRank = 2
		}
		if ep.Rank() != wantRank {
			return nil, fmt.Errorf("%w: en-passant square %s inconsistent with side to move", ErrInvalidFEN, fields[3])
		}
		// The square implies a double push just happened: the enemy pawn
		// sits behind the target, and the target and its origin are empty.
		them := Color(1 - b.sideToMove)
		behind, origin := ep-8, ep+8
		if b.sideToMove == Black {
			behind, origin = ep+8, ep-8
		}
		if b.pieces[ep] != NoPiece || b.pieces[origin] != NoPiece ||
			b.pieces[behind] != PieceFromType(them, PieceTypePawn) {
			return nil, fmt.Errorf("%w: en-passant square %s inconsistent with piece placement", ErrInvalidFEN, fields[3])
		}
		// Keep the square only if a pawn of the side to move can capture on
		// it, matching the convention MakeMove maintains. The reverse lookup
		// uses the opposite color's attack table.
		if pawnAttacks[them][ep]&b.pawns[b.sideToMove] != 0 {
			b.enPassantSquare = ep
		}
	}

	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: bad halfmove clock %q", ErrInvalidFEN, fields[4])
		}
		b.halfmoveClock = n
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: bad fullmove number %q", ErrInvalidFEN, fields[5])
		}
		b.fullmoveNumber = n
	}

	b.zobristKey = b.ComputeZobrist()
	return b, nil
}

// MustParseFEN is ParseFEN for known-good positions; it panics on error.
func MustParseFEN(fen string) *Board {
	b, err := ParseFEN(fen)
	if err != nil {
		panic(err)
	}
	return b
}

// ToFEN renders the position as a six-field FEN record.
func (b *Board) ToFEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			p := b.pieces[rank*8+file]
			if p == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(charFromPiece(p))
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	if b.sideToMove == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	if b.castlingRights == 0 {
		sb.WriteByte('-')
	} else {
		if b.castlingRights&CastlingWhiteK != 0 {
			sb.WriteByte('K')
		}
		if b.castlingRights&CastlingWhiteQ != 0 {
			sb.WriteByte('Q')
		}
		if b.castlingRights&CastlingBlackK != 0 {
			sb.WriteByte('k')
		}
		if b.castlingRights&CastlingBlackQ != 0 {
			sb.WriteByte('q')
		}
	}

	sb.WriteByte(' ')
	if b.enPassantSquare == NoSquare {
		sb.WriteByte('-')
	} else {
		sb.WriteString(squareName(b.enPassantSquare))
	}

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.halfmoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.fullmoveNumber))
	return sb.String()
}

// Package scoring implements the assessment scoring engine.
//
// The engine turns a set of Likert (1-7) and categorical answers into a
// 0-100 index with a per-section and per-construct breakdown. The pipeline
// runs strictly left to right:
//
//  1. normalize each Likert answer to [0,1], inverting reverse-scored items
//  2. aggregate answers into construct scores (weighted mean)
//  3. aggregate constructs into section scores (unweighted mean, 0-100)
//  4. evaluate synergy pairs over construct scores
//  5. combine weighted section scores with the synergy bonus, capped at 100
//  6. interpret the rounded score against a band table
//  7. recommend improvements for the weakest constructs, worded for the
//     respondent profile when the type configures Personalization
//
// Every stage is a pure function of its inputs. A QuestionConfig carries all
// tables for one assessment type, so the same engine serves every type. The
// package performs no I/O and holds no mutable state; a Service may be shared
// between goroutines without synchronization.
//
// Irregular answers (out of range, wrong shape) never abort scoring. They are
// dropped from aggregation and reported in Result.Skipped. Irregular
// configuration is fatal and surfaces as a *ConfigurationError.
package scoring
